package dirmerge_test

import (
	"fmt"
	"log"
	"os"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/dirmerge/dirmerge"
)

func ExampleMerge() {
	// Filesystem abstraction based on memory
	fs := memfs.New()

	// The library already holds the q1 report, the download directory holds
	// a second copy of it plus a new q2 report
	files := map[string]string{
		"/library/reports/q1.txt":  "q1 totals\n",
		"/download/reports/q1.txt": "q1 totals\n",
		"/download/reports/q2.txt": "q2 totals\n",
	}
	for path, content := range files {
		if err := util.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			log.Fatal(err)
		}
	}

	conflicts, err := dirmerge.Merge("/library", "/download", &dirmerge.MergeOptions{
		Filesystem: fs,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("conflicts:", len(conflicts))

	_, err = fs.Stat("/library/reports/q2.txt")
	fmt.Println("q2 relocated:", err == nil)

	_, err = fs.Stat("/download")
	fmt.Println("download removed:", os.IsNotExist(err))

	// Output:
	// conflicts: 0
	// q2 relocated: true
	// download removed: true
}

func ExampleMerge_conflicts() {
	fs := memfs.New()

	// Both trees hold a report at the same path with differing content
	if err := util.WriteFile(fs, "/library/report.txt", []byte("v1\n"), 0o644); err != nil {
		log.Fatal(err)
	}
	if err := util.WriteFile(fs, "/download/report.txt", []byte("v2\n"), 0o644); err != nil {
		log.Fatal(err)
	}

	conflicts, err := dirmerge.Merge("/library", "/download", &dirmerge.MergeOptions{
		Filesystem: fs,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Conflicted files stay on both sides for manual resolution
	fmt.Println(conflicts)

	// Output:
	// [<Reason: content mismatch, Path: report.txt>]
}
