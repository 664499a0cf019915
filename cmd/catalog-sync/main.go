// Command catalog-sync lints an achievement catalog file and, with -apply,
// upserts it into the database by slug.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"hadithhub/catalog"
	"hadithhub/config"
	"hadithhub/database"
)

func main() {
	file := flag.String("file", "", "catalog YAML file (default: the built-in catalog)")
	apply := flag.Bool("apply", false, "write the catalog to the database")
	flag.Parse()

	var (
		f   *catalog.File
		err error
	)
	source := *file
	if source == "" {
		source = "built-in catalog"
		f, err = catalog.Default()
	} else {
		f, err = catalog.LoadFile(source)
	}
	if err != nil {
		fmt.Printf("%s: %v\n", source, err)
		os.Exit(1)
	}

	if err := f.Validate(); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Printf("%s: %s\n", source, p)
			}
		} else {
			fmt.Printf("%s: %v\n", source, err)
		}
		os.Exit(1)
	}
	fmt.Printf("%s: OK (%d achievements)\n", source, len(f.Achievements))

	if !*apply {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config:", err)
		os.Exit(1)
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		fmt.Println("database:", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		fmt.Println("migrate:", err)
		os.Exit(1)
	}

	n, err := catalog.Sync(context.Background(), db, f)
	if err != nil {
		fmt.Println("sync:", err)
		os.Exit(1)
	}
	fmt.Printf("synced %d achievements\n", n)
}
