package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"labyrinth/internal/replay"
	"labyrinth/internal/session"
	"labyrinth/internal/sim"
)

func main() {
	dumpLevel := flag.String("dump-level", "", "print a level as TOML (\"builtin\" for the built-in level) and exit")
	events := flag.Bool("events", false, "list every recorded event")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-events] <bundle-dir>\n       %s -dump-level builtin|<file.toml>\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var err error
	switch {
	case *dumpLevel != "":
		err = dump(os.Stdout, *dumpLevel)
	case flag.NArg() == 1:
		err = summarize(os.Stdout, flag.Arg(0), *events)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "labyrinth-replay: %v\n", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, source string) error {
	path := source
	if source == "builtin" {
		path = ""
	}
	level, err := session.LoadLevel(path)
	if err != nil {
		return err
	}
	return sim.EncodeLevel(w, level)
}

func summarize(w io.Writer, dir string, listEvents bool) error {
	bundle, err := replay.Open(dir)
	if err != nil {
		return err
	}
	s, err := bundle.Summarize()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "level     %s\n", s.Level)
	fmt.Fprintf(w, "outcome   %s\n", s.Outcome)
	fmt.Fprintf(w, "frames    %d (last tick %d)\n", s.Frames, s.FinalTick)
	fmt.Fprintf(w, "duration  %.2fs\n", s.Duration)
	fmt.Fprintf(w, "phases    %v\n", s.Phases)

	types := make([]string, 0, len(s.Events))
	for t := range s.Events {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-14s %d\n", t, s.Events[t])
	}

	if !listEvents {
		return nil
	}
	evs, err := bundle.Events()
	if err != nil {
		return err
	}
	for _, e := range evs {
		fmt.Fprintf(w, "%6d %-14s x=%+.2f z=%+.2f", e.Tick, e.Type, e.X, e.Z)
		switch e.Type {
		case "phase_changed":
			fmt.Fprintf(w, " %s -> %s", e.From, e.To)
		case "obstacle_hit":
			fmt.Fprintf(w, " #%d speed %.2f", e.Index, e.Speed)
		case "hole_entered":
			fmt.Fprintf(w, " #%d final=%t", e.Index, e.Final)
		}
		fmt.Fprintln(w)
	}
	return nil
}
