package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Diff compares a local file against the server copy of a node, printing a
// unified diff (remote on the left, local on the right).
func Diff(args []string) {
	if len(args) < 2 {
		fail("usage: roamweb diff <file> <node-id>")
	}
	path := args[0]
	id, err := uuid.Parse(args[1])
	if err != nil {
		fail("invalid node id %q: %v", args[1], err)
	}

	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.cleanup()

	local, err := os.ReadFile(path)
	if err != nil {
		fail("failed to read %s: %v", path, err)
	}

	client, err := e.apiClient()
	if err != nil {
		fail("%v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
	defer cancel()
	node, err := client.GetNode(ctx, id)
	if err != nil {
		fail("failed to fetch node: %v", err)
	}

	edits := myers.ComputeEdits(span.URIFromPath(node.Title), node.Content, string(local))
	if len(edits) == 0 {
		success("No differences")
		return
	}
	fmt.Print(gotextdiff.ToUnified(node.Title, path, node.Content, edits))
}
