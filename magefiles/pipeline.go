//go:build mage

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Generate builds the CLI and produces today's edition into site/.
func Generate() error {
	mg.Deps(Build)
	cmd := exec.Command(filepath.Join(binDir, binName), "generate")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Serve serves the published site on localhost:8400 for a local preview.
func Serve() error {
	fmt.Println("Serving site/ on http://localhost:8400")
	return http.ListenAndServe(":8400", http.FileServer(http.Dir("site")))
}

// Clean removes build output and the published site.
func Clean() error {
	for _, dir := range []string{binDir, "site"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}
