package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/gerunddev/roamweb/styles"
)

// View fetches a node and previews it in the terminal. Markdown nodes get a
// glamour rendering; org nodes are shown as source.
func View(args []string) {
	if len(args) == 0 {
		fail("no node id specified")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		fail("invalid node id %q: %v", args[0], err)
	}

	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.cleanup()

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

	fmt.Println(styles.TitleStyle.Render(node.Title))
	if len(node.Tags) > 0 {
		fmt.Println(styles.TagStyle.Render(":" + strings.Join(node.Tags, ":") + ":"))
	}
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("%s · updated %s", node.Format, node.UpdatedAt.Format("2006-01-02 15:04"))))
	fmt.Println()

	if node.Format == "markdown" {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if out, err := renderer.Render(node.Content); err == nil {
				fmt.Print(out)
				return
			}
		}
	}
	fmt.Println(node.Content)
}
