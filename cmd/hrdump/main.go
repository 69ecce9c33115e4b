// Command hrdump prints the rows of a HybridRow store.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	hybridrow "github.com/microsoft/HybridRow-sub002"
	"github.com/microsoft/HybridRow-sub002/rowstore"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML config file")
	dbPath := pflag.StringP("path", "p", "", "store file (overrides config)")
	format := pflag.StringP("format", "f", "json", "output format: json, dump or stats")
	from := pflag.String("from", "", "start scanning at this key")
	limit := pflag.IntP("limit", "n", 0, "stop after this many rows")
	verify := pflag.Bool("verify", false, "validate every row")
	pflag.Parse()

	opt, err := rowstore.LoadOptions(*configPath)
	if err != nil {
		log.Fatalf("hrdump: %v", err)
	}
	if *dbPath != "" {
		opt.Path = *dbPath
	}
	if opt.Path == "" {
		log.Fatalf("hrdump: no store path, use --path or a config file")
	}
	if *verify {
		opt.Verify = true
	}

	store, err := rowstore.Open(nil, opt)
	if err != nil {
		log.Fatalf("hrdump: %v", err)
	}
	defer store.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	var start []byte
	if *from != "" {
		start = []byte(*from)
	}
	var n int
	var printErr error
	err = store.Scan(start, func(key []byte, row *hybridrow.RowBuffer) bool {
		if printErr = printRow(w, *format, key, row); printErr != nil {
			return false
		}
		n++
		return *limit == 0 || n < *limit
	})
	if err == nil {
		err = printErr
	}
	if err != nil {
		w.Flush()
		log.Fatalf("hrdump: %v", err)
	}
}

func printRow(w *bufio.Writer, format string, key []byte, row *hybridrow.RowBuffer) error {
	switch format {
	case "json":
		data, err := hybridrow.ExportJSON(row)
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		fmt.Fprintf(w, "%q\t%s\n", key, data)
	case "dump":
		fmt.Fprintf(w, "== %q\n%s\n", key, row.Dump(hybridrow.DumpAll))
	case "stats":
		st := row.Stats()
		fmt.Fprintf(w, "%q\t%s\tsize=%d layout=%d var=%d sparse=%d fields=%d scopes=%d depth=%d\n",
			key, row.Layout().Name(), st.Size, st.LayoutSize, st.VariableSize, st.SparseSize, st.Fields, st.Scopes, st.MaxDepth)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
