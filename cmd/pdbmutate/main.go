// Command pdbmutate applies point mutations to the ATOM records of PDB files.
//
// Every file named on the command line is read (gzipped files ending in ".gz"
// are decompressed), every mutation given with -m is applied in order, and
// the result is written to <out>/<name>.mut.pdb. The residue tally of each
// mutated file is printed, along with any mutation that matched nothing.
//
// Files are processed by several workers. By default, the number of workers
// equals the number of CPUs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/TuftsBCB/mutview/pdb"
)

var (
	flagMutations mutationFlags
	flagWorkers   int
	flagOut       string
	flagRMSD      bool
)

// mutationFlags collects every -m flag.
type mutationFlags []string

func (ms *mutationFlags) String() string {
	return strings.Join(*ms, ",")
}

func (ms *mutationFlags) Set(v string) error {
	*ms = append(*ms, v)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage: %s [-m mutation ...] [flags] pdb-file [ pdb-file ... ]\n",
		path.Base(os.Args[0]))
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nex. './%s -m S234C -m B:GLY12ASP *.pdb.gz'\n",
		path.Base(os.Args[0]))
	os.Exit(1)
}

// result is sent from workers to the collector for each file.
type result struct {
	file    string
	outFile string
	report  pdb.Report
	tally   []pdb.ResidueCount
	rmsd    map[byte]float64
	err     error
}

// mutateFile applies muts to a PDB file and writes the mutated structure to
// outDir. If rmsd is set, the mutated structure is compared with the input.
func mutateFile(file string, muts []pdb.Mutation, outDir string, rmsd bool) result {
	res := result{file: file}
	rec, err := pdb.ReadFile(file)
	if err != nil {
		res.err = err
		return res
	}

	mutated, rep := rec.Mutate(muts)
	res.report = rep
	res.tally = pdb.Tally(mutated.SeqresResidues())

	res.outFile = filepath.Join(outDir, outName(file))
	if err := os.WriteFile(res.outFile, []byte(mutated.String()), 0644); err != nil {
		res.err = err
		return res
	}

	if rmsd {
		before, err := rec.ParseEntry(file)
		if err != nil {
			res.err = err
			return res
		}
		after, err := mutated.ParseEntry(res.outFile)
		if err != nil {
			res.err = err
			return res
		}
		if res.rmsd, err = pdb.RMSDEntries(before, after); err != nil {
			res.err = err
			return res
		}
	}
	return res
}

// outName is the file name of the mutated structure: "1abc.pdb.gz" becomes
// "1abc.mut.pdb".
func outName(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, ".gz")
	for _, ext := range []string{".pdb", ".ent"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".mut.pdb"
}

// worker picks off PDB files from the files channel until it is closed.
func worker(
	files <-chan string,
	results chan<- result,
	muts []pdb.Mutation,
	outDir string,
	rmsd bool,
) {
	for file := range files {
		results <- mutateFile(file, muts, outDir, rmsd)
	}
}

// collect reads total results, reporting each one to stdout and errors and
// unmatched mutations to stderr. It returns the number of failed files.
func collect(results <-chan result, total int, stdout, stderr io.Writer) int {
	failed := 0
	for i := 0; i < total; i++ {
		r := <-results
		if r.err != nil {
			fmt.Fprintf(stderr, "%s error: %s\n", r.file, r.err)
			failed++
			continue
		}

		fmt.Fprintf(stdout, "%s -> %s\n", r.file, r.outFile)
		for j, m := range r.report.Mutations {
			fmt.Fprintf(stdout, "\t%s: %d ATOM records\n", m, r.report.Matches[j])
		}
		for _, m := range r.report.Unmatched() {
			fmt.Fprintf(stderr, "%s: %s matched no ATOM records\n", r.file, m)
		}
		for _, c := range r.tally {
			fmt.Fprintf(stdout, "\t%s\t%d\n", c.Residue, c.Count)
		}
		for ident, v := range r.rmsd {
			fmt.Fprintf(stdout, "\tchain %c RMSD %0.3f\n", ident, v)
		}
		fmt.Fprintln(stdout, "--------------------------")
	}
	return failed
}

// run mutates every file with the given number of workers and returns the
// number of files that could not be processed.
func run(
	files []string,
	muts []pdb.Mutation,
	workers int,
	outDir string,
	rmsd bool,
	stdout, stderr io.Writer,
) int {
	if workers < 1 {
		workers = 1
	}
	fileChan := make(chan string, 100)
	results := make(chan result, 100)
	for i := 0; i < workers; i++ {
		go worker(fileChan, results, muts, outDir, rmsd)
	}
	go func() {
		for _, file := range files {
			fileChan <- file
		}
		close(fileChan)
	}()
	return collect(results, len(files), stdout, stderr)
}

func main() {
	log.SetFlags(0)
	flag.Var(&flagMutations, "m",
		"A mutation to apply, e.g., 'S234C' or 'A:SER234CYS'. "+
			"May be given more than once.")
	flag.IntVar(&flagWorkers, "workers", runtime.NumCPU(),
		"The number of workers to use to process PDB files. This is "+
			"limited by the maximum allowable open file descriptors.")
	flag.StringVar(&flagOut, "out", ".",
		"The directory to write mutated PDB files to.")
	flag.BoolVar(&flagRMSD, "rmsd", false,
		"When set, report the RMSD between each input and mutated chain.")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 || len(flagMutations) == 0 {
		usage()
	}
	muts, err := pdb.ParseMutations(flagMutations)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(flagOut, 0755); err != nil {
		log.Fatal(err)
	}
	if failed := run(flag.Args(), muts, flagWorkers, flagOut, flagRMSD,
		os.Stdout, os.Stderr); failed > 0 {
		log.Fatalf("%d of %d files failed", failed, flag.NArg())
	}
}
