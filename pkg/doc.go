// Package pkg provides the core libraries for Storyboard, which renders
// class schedules as vertical 1080x1920 story images.
//
// # Overview
//
// A story is a template (look), a style (the user's overrides), a schedule
// (the classes) and per-element typography. The layout adapts type size and
// spacing to the number of classes, measures the result and refines it until
// the schedule fits the canvas.
//
// # Architecture
//
// The data flow of one render:
//
//	Schedule + Style + Template
//	         ↓
//	    [ingest] (decode payloads, drop invalid fields)
//	         ↓
//	    [editor] (apply edits, load and save documents)
//	         ↓
//	    [density] (scale factors and spacing for the item count)
//	         ↓
//	    [resolve] (per-element typography and colors)
//	         ↓
//	    [render] + [measure] (build the tree, settle against the canvas)
//	         ↓
//	    [render/sink] (SVG, PNG, JSON)
//
// [pipeline] runs the whole flow with a two-tier cache and is shared by the
// CLI and the HTTP server.
//
// # Main Packages
//
// ## Domain
//
// [schedule] - Schedule items and their bound fields.
//
// [style] - Story style, presets and merging.
//
// [elements] - The content element registry with typography defaults and
// legibility floors.
//
// [templates] - Built-in and file-defined templates with a fallback.
//
// [density] - The adaptive density engine: count to density, density to
// scale factors, smart spacing and body size fitting.
//
// [resolve] - Resolves the final sheet of element styles, with contrast
// checks.
//
// [measure] - Story metrics and the bounded settle loop.
//
// [render] - Layout strategies and the render tree. [render/sink] writes it
// as SVG, PNG or JSON.
//
// [fonts] - Text measurement and rasterization faces.
//
// ## Editing and Storage
//
// [ingest] - Tolerant decoding of style, schedule and element payloads in
// JSON, YAML or TOML.
//
// [editor] - A document editing session over a template.
//
// [persist] - Document stores: memory, file and MongoDB.
//
// [upload] - Logo and background image uploads.
//
// ## Infrastructure
//
// [cache] - Cache backends (file, Redis, null) and key derivation.
//
// [remote] - Cached HTTP fetching of schedules and images.
//
// [httputil] - Retry and cached-fetch helpers.
//
// [config] - TOML and environment configuration.
//
// [observability] - Hooks for render, cache and HTTP events, with a
// Prometheus implementation in [observability/prom].
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information.
//
// # Testing
//
//	go test ./pkg/...
//
// [schedule]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/schedule
// [style]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/style
// [elements]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/elements
// [templates]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/templates
// [density]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/density
// [resolve]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/resolve
// [measure]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/measure
// [render]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/render/sink
// [fonts]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/fonts
// [ingest]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/ingest
// [editor]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/editor
// [persist]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/persist
// [upload]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/upload
// [cache]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/cache
// [remote]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/remote
// [httputil]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/storyboard/pkg/pipeline
package pkg
