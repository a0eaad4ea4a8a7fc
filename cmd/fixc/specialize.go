package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fixlang/fixc/internal/cache"
	"github.com/fixlang/fixc/internal/fixture"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/program"
)

func newSpecializeCmd() *cobra.Command {
	var demandFlags []string
	var cachePath string
	var buildStamp string
	var list bool

	cmd := &cobra.Command{
		Use:   "specialize <example-name>",
		Short: "run a built-in example program through the full pipeline, including monomorphizing specialization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				fmt.Println(strings.Join(exampleNames(), "\n"))
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("fixc specialize: expected exactly one example name, see --list")
			}
			build, ok := examples[args[0]]
			if !ok {
				return fmt.Errorf("fixc specialize: unknown example %q, see --list", args[0])
			}

			demands, err := parseDemands(demandFlags)
			if err != nil {
				return err
			}

			pl := program.NewPipeline([]*program.Module{build()})
			if cachePath != "" {
				stamp := buildStamp
				if stamp == "" {
					// No explicit build stamp: mint one so concurrent
					// invocations against the same cache file never
					// collide on a shared default value.
					stamp = uuid.NewString()
				}
				store, err := cache.Open(cachePath, stamp)
				if err != nil {
					return fmt.Errorf("fixc: open cache: %w", err)
				}
				defer store.Close()
				pl.WithCache(store)
			}

			res := pl.Run(context.Background(), demands)
			if err := reportAndExit(res.Diagnostics); err != nil {
				return err
			}

			for key, sym := range res.Specialized {
				fmt.Printf("%s : %s\n", key, sym.Type.String())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&demandFlags, "demand", nil, `specialize a generic export at a concrete type, "Namespace.name:Type"`)
	cmd.Flags().StringVar(&cachePath, "cache", "", "sqlite elaboration cache path (see internal/cache); empty disables caching")
	cmd.Flags().StringVar(&buildStamp, "build-stamp", "", "cache build-stamp; defaults to a fresh UUID when --cache is set")
	cmd.Flags().BoolVar(&list, "list", false, "list built-in example names and exit")
	return cmd
}

// parseDemands parses "Namespace.name:Type" flags into program.Demand
// values, using internal/fixture's type-expression grammar for the Type
// half so --demand and fixture YAML "type:" fields stay in one syntax.
func parseDemands(flags []string) ([]program.Demand, error) {
	out := make([]program.Demand, 0, len(flags))
	for _, f := range flags {
		idx := strings.LastIndex(f, ":")
		if idx < 0 {
			return nil, fmt.Errorf("fixc: --demand %q: expected \"name:Type\"", f)
		}
		nameText, typeText := f[:idx], f[idx+1:]
		t, err := fixture.ParseType(typeText)
		if err != nil {
			return nil, fmt.Errorf("fixc: --demand %q: %w", f, err)
		}
		out = append(out, program.Demand{Name: parseFullName(nameText), Type: t})
	}
	return out, nil
}

// parseFullName splits "A.B.name" into NameSpace{"A","B"} and "name",
// matching internal/names.FullName's dotted String() rendering.
func parseFullName(s string) names.FullName {
	parts := strings.Split(s, ".")
	if len(parts) == 1 {
		return names.Local(parts[0])
	}
	return names.FullName{NameSpace: names.NameSpace(parts[:len(parts)-1]), Identifier: parts[len(parts)-1]}
}
