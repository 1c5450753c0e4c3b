package main

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Path: "github.com/pdiddy/structure-fetch", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "github.com/mattn/go-sqlite3", Version: "v1.14.34"},
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var buf bytes.Buffer
	printVersion(&buf, info)
	out := buf.String()

	assert.Contains(t, out, "structure-fetch "+version)
	assert.Contains(t, out, "go:       go1.25.6")
	assert.Contains(t, out, "module:   github.com/pdiddy/structure-fetch (devel)")
	assert.Contains(t, out, "revision: abc123 (dirty)")
	assert.Contains(t, out, "github.com/mattn/go-sqlite3 v1.14.34")
	assert.NotContains(t, out, "spf13/cobra")
}

func TestPrintVersion_NoBuildInfo(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf, nil)
	assert.Equal(t, "structure-fetch "+version+"\n", buf.String())
}
