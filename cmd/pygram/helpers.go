package main

import "github.com/pygram-go/pygram/internal/cliutil"

func defaultFileLister() cliutil.FileLister {
	return cliutil.WalkDirLister{}
}
