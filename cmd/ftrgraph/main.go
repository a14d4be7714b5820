package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr/catalog"
	"github.com/fine-structures/ftrgraph/libftr/mesh"
	"github.com/fine-structures/ftrgraph/libftr/sweep"
	"github.com/plan-systems/klog"
)

type cliOpts struct {
	params    goftr.Params
	printLvl  int
	dbPath    string
	name      string
	listTrees bool
}

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	var opts cliOpts
	split := flag.Bool("split", false, "build the split tree instead of the join tree")
	flag.BoolVar(&opts.params.ParallelSort, "parallel", false, "sort scalars and leaves in parallel")
	flag.IntVar(&opts.params.NumWorkers, "workers", 0, "goroutines for parallel phases (0 for GOMAXPROCS)")
	flag.BoolVar(&opts.params.Debug, "debug", false, "check graph preconditions as the tree is built")
	flag.IntVar(&opts.printLvl, "print", 2, "1: counts, 2: nodes and arcs, 3: segmentation")
	flag.StringVar(&opts.dbPath, "db", "", "catalog pathname; the tree is stored there if given")
	flag.StringVar(&opts.name, "name", "tree", "catalog name for the tree")
	flag.BoolVar(&opts.listTrees, "list", false, "list the trees in the catalog")
	verbosity := flag.String("v", "1", "log verbosity")
	flag.Parse()

	fset.Set("v", *verbosity)
	if *split {
		opts.params.TreeType = goftr.SplitTree
	}

	err := run(os.Stdout, flag.Arg(0), opts)
	if err != nil {
		klog.Errorf("ftrgraph: %v", err)
	}
	klog.Flush()

	if err != nil {
		os.Exit(1)
	}
}

func run(w io.Writer, meshExpr string, opts cliOpts) error {
	var cat *catalog.Catalog
	if opts.dbPath != "" {
		var err error
		cat, err = catalog.Open(catalog.CatalogOpts{
			DbPathName: opts.dbPath,
		})
		if err != nil {
			return err
		}
		defer cat.Close()
	}

	if meshExpr != "" {
		m, err := mesh.ParseMesh(meshExpr)
		if err != nil {
			return err
		}

		res, err := sweep.BuildTree(m, opts.params)
		if err != nil {
			return err
		}
		if err = res.Graph.Print(w, opts.printLvl); err != nil {
			return err
		}
		klog.Infof("%v tree: %d leaves, %d saddles, %d roots", opts.params.TreeType, res.Stats.Leaves, res.Stats.Saddles, res.Stats.Roots)

		if cat != nil {
			id, err := cat.Put(opts.name, catalog.SnapshotOf(res.Graph))
			if err != nil {
				return err
			}
			klog.Infof("stored %q as %v", opts.name, id)
		}
	}

	if opts.listTrees && cat != nil {
		entries, err := cat.List()
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if _, err = fmt.Fprintf(w, "%v  %s\n", entry.ID, entry.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
