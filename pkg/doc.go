// Package pkg holds the libraries behind lanegraph, a commit graph viewer
// that draws each row of the graph as an inline terminal image.
//
// # Architecture
//
// A history flows through the packages in this order:
//
//	git log / JSON export
//	        ↓
//	   [source/gitlog], [io]      load commits
//	        ↓
//	   [dag]                      index parents and children, order rows
//	        ↓
//	   [graph]                    assign lanes, build edges and detours
//	        ↓
//	   [render]                   rasterize one row to a PNG
//	        ↓
//	   [cache]                    keep rows across runs
//	        ↓
//	   [protocol]                 wrap rows for iTerm2 or kitty
//	        ↓
//	   [graphimage]               one encoded image per commit
//
// [pipeline] wires these stages together for the command line; [config],
// [errors], [observability] and [terminal] support every stage.
//
// # Quick Start
//
//	commits, _ := gitlog.Load(ctx, ".", gitlog.Options{})
//	d, _ := dag.New(commits)
//	g := graph.Build(d)
//	m, _ := graphimage.New(ctx, g, graphimage.Options{
//	    Params:    render.DoubleParams(),
//	    Style:     render.StyleRounded,
//	    CellWidth: render.CellWidthDouble,
//	    Protocol:  protocol.Detect(os.Getenv, nil),
//	})
//	img, _ := m.Load(ctx, g.Commits[0].Hash)
//	fmt.Println(img)
package pkg
