package main

import (
	"fmt"
	"io"
	"time"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/config"
	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/render"
)

func main() {
	start := time.Now()

	t1 := time.Now()
	categories, err := config.LoadCategoriesConfig()
	if err != nil {
		panic(err)
	}
	fmt.Printf("LoadCategoriesConfig: %v (%d categories)\n", time.Since(t1), len(categories.Categories))

	t2 := time.Now()
	cat, err := catalog.NewLoader().Load()
	if err != nil {
		panic(err)
	}
	fmt.Printf("LoadEmbeddedCatalog: %v (%d tools)\n", time.Since(t2), cat.Count())

	t3 := time.Now()
	cat, err = catalog.NewLoader(catalog.WithValidation(false)).Load()
	if err != nil {
		panic(err)
	}
	fmt.Printf("LoadEmbeddedCatalog without validation: %v\n", time.Since(t3))

	for _, def := range cat.Categories.Categories {
		t4 := time.Now()
		tools, _ := cat.Tools(def.ID)
		table := engine.NewTable(tools, def.Sections)
		table.SetSectionOpen(engine.StatsSectionID, true)
		for _, s := range def.Sections {
			table.SetSectionOpen(s.ID, true)
		}
		view := table.View()
		if err := render.WriteText(io.Discard, render.Build(&def, table, view), false); err != nil {
			panic(err)
		}
		fmt.Printf("Render %s: %v (%d tools)\n", def.ID, time.Since(t4), len(view.Tools))
	}

	fmt.Printf("\nTotal init: %v\n", time.Since(start))
}
