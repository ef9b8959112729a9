// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Command comprobe instantiates a COM object and reports which interfaces it
// implements.
//
// The object comes either from a registered class:
//
//	comprobe --clsid {00000000-0000-0000-0000-000000000000}
//
// or from a creation function exported by a system DLL:
//
//	comprobe --module dxgi.dll --proc CreateDXGIFactory1
//
// By default every interface descriptor known to comkit is probed; --iid
// restricts the probe to specific interface IDs.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dblohm7/comkit"
	"github.com/dblohm7/comkit/com"
	_ "github.com/dblohm7/comkit/d2d1"
	_ "github.com/dblohm7/comkit/dxgi"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	apartment string
	clsid     string
	iids      []string
	module    string
	proc      string
	verbose   bool
	stats     bool
)

func init() {
	flag.Usage = usage
	flag.StringVar(&apartment, "apartment", "mta", "threading model to initialize: sta or mta")
	flag.StringVar(&clsid, "clsid", "", "class ID to instantiate")
	flag.StringSliceVar(&iids, "iid", nil, "interface ID to probe (repeatable)")
	flag.StringVar(&module, "module", "", "system DLL exporting a creation function")
	flag.StringVar(&proc, "proc", "", "creation function exported by --module")
	flag.BoolVarP(&verbose, "verbose", "v", false, "log reference counting and apartment events")
	flag.BoolVar(&stats, "stats", false, "print reference counters after probing")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	flag.PrintDefaults()
}

func usagef(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	usage()
	os.Exit(2)
}

func main() {
	flag.Parse()

	model, err := parseModel(apartment)
	if err != nil {
		usagef("%v", err)
	}

	factory, what, err := selectFactory()
	if err != nil {
		usagef("%v", err)
	}

	targets, err := probeTargets(iids)
	if err != nil {
		usagef("%v", err)
	}

	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		com.SetLogger(logger)
	}

	reg := prometheus.NewRegistry()
	if err := com.RegisterMetrics(reg); err != nil {
		fmt.Fprintf(os.Stderr, "registering metrics: %v\n", err)
		os.Exit(1)
	}

	if err := run(model, factory, what, targets); err != nil {
		fmt.Fprintf(os.Stderr, "comprobe: %+v\n", err)
		os.Exit(1)
	}

	if stats {
		if err := printStats(reg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "gathering metrics: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseModel(s string) (com.ThreadingModel, error) {
	switch strings.ToLower(s) {
	case "sta":
		return com.ApartmentThreaded, nil
	case "mta":
		return com.MultiThreaded, nil
	default:
		return 0, errors.Errorf("unknown apartment %q", s)
	}
}

func selectFactory() (com.FactoryFunc, string, error) {
	switch {
	case clsid != "" && (module != "" || proc != ""):
		return nil, "", errors.New("--clsid cannot be combined with --module or --proc")
	case clsid != "":
		g, err := comkit.ParseGUID(clsid)
		if err != nil {
			return nil, "", errors.Wrap(err, "parsing --clsid")
		}
		c := com.CLSID(g)
		return com.ClassFactory(&c), "CLSID " + c.String(), nil
	case module != "" && proc != "":
		return com.ProcFactory(module, proc), module + "!" + proc, nil
	default:
		return nil, "", errors.New("either --clsid or both --module and --proc are required")
	}
}

func run(model com.ThreadingModel, factory com.FactoryFunc, what string, targets []*com.Interface) error {
	apt, err := com.InitApartment(model)
	if err != nil {
		return errors.Wrap(err, "initializing apartment")
	}
	defer apt.Close()

	obj, err := com.Create[com.ObjectBase](factory)
	if err != nil {
		return errors.Wrapf(err, "creating %s", what)
	}
	defer obj.Close()

	fmt.Printf("%s (%v apartment)\n", what, model)
	for _, r := range probe(obj, targets) {
		fmt.Println(r)
	}
	return nil
}
