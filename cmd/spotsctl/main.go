package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tripagent/internal/ingest"
	"tripagent/internal/spots"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: spotsctl <command> [flags]

commands:
  fetch     -city NAME [-out DIR]   fetch a city's spots from OpenStreetMap
  validate  [-dir DIR]              audit every city dataset
  defaults  [-dir DIR]              backfill missing durations/ratings/descriptions
  cities    [-dir DIR]              list available city datasets`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "fetch":
		cmdFetch(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	case "defaults":
		cmdDefaults(os.Args[2:])
	case "cities":
		cmdCities(os.Args[2:])
	default:
		usage()
	}
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	city := fs.String("city", "", "city name")
	out := fs.String("out", "data", "output directory")
	_ = fs.Parse(args)
	if *city == "" {
		log.Fatal("fetch: -city is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	list, err := ingest.NewClient().FetchCitySpots(ctx, *city)
	if err != nil {
		log.Fatalf("fetch %s: %v", *city, err)
	}
	filled := spots.ApplyDefaults(list)
	if err := spots.Save(*out, *city, list); err != nil {
		log.Fatalf("save %s: %v", *city, err)
	}
	fmt.Printf("fetched %d spots for %s (%d fields backfilled)\n", len(list), *city, filled)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dir := fs.String("dir", "data", "spots directory")
	_ = fs.Parse(args)
	cities, err := spots.Cities(*dir)
	if err != nil {
		log.Fatalf("list cities: %v", err)
	}
	if len(cities) == 0 {
		fmt.Println("no city datasets found")
		return
	}
	bad := 0
	for _, city := range cities {
		list, err := spots.Load(*dir, city)
		if err != nil {
			log.Fatalf("load %s: %v", city, err)
		}
		rep := spots.Audit(city, list)
		fmt.Println(rep.Summary())
		if rep.Clean != rep.Total {
			bad++
		}
	}
	if bad > 0 {
		os.Exit(1)
	}
}

func cmdDefaults(args []string) {
	fs := flag.NewFlagSet("defaults", flag.ExitOnError)
	dir := fs.String("dir", "data", "spots directory")
	_ = fs.Parse(args)
	cities, err := spots.Cities(*dir)
	if err != nil {
		log.Fatalf("list cities: %v", err)
	}
	for _, city := range cities {
		list, err := spots.Load(*dir, city)
		if err != nil {
			log.Fatalf("load %s: %v", city, err)
		}
		n := spots.ApplyDefaults(list)
		if n == 0 {
			fmt.Printf("%s: nothing to fill\n", city)
			continue
		}
		if err := spots.Save(*dir, city, list); err != nil {
			log.Fatalf("save %s: %v", city, err)
		}
		fmt.Printf("%s: filled %d fields\n", city, n)
	}
}

func cmdCities(args []string) {
	fs := flag.NewFlagSet("cities", flag.ExitOnError)
	dir := fs.String("dir", "data", "spots directory")
	_ = fs.Parse(args)
	cities, err := spots.Cities(*dir)
	if err != nil {
		log.Fatalf("list cities: %v", err)
	}
	for _, city := range cities {
		list, err := spots.Load(*dir, city)
		if err != nil {
			log.Fatalf("load %s: %v", city, err)
		}
		fmt.Printf("%s\t%d spots\n", city, len(list))
	}
}
