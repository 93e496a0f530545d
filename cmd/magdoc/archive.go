package main

import (
	"fmt"

	"github.com/fwojciec/magdoc"
)

// Run executes the archive list command.
func (c *ArchiveListCmd) Run(deps *Dependencies) error {
	filter := magdoc.ArticleFilter{Limit: c.Limit}
	if c.Issue != "" {
		filter.IssueDate = &c.Issue
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived articles found. Use 'magdoc edition' to fetch one.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-7s  %s\n     %s\n", a.ID, a.IssueDate, a.Kind, a.Title, a.SourceURL)
	}
	return nil
}

// Run executes the archive show command.
func (c *ArchiveShowCmd) Run(deps *Dependencies) error {
	a, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "<!-- %s %s -->\n", a.IssueDate, a.SourceURL)
	if a.Author != "" || !a.Published.IsZero() {
		fmt.Fprintf(deps.Stdout, "<!-- %s %s -->\n", a.Author, formatDate(a))
	}
	fmt.Fprint(deps.Stdout, a.Markdown)
	return nil
}

func formatDate(a *magdoc.ArchivedArticle) string {
	if a.Published.IsZero() {
		return ""
	}
	return a.Published.Format("2006-01-02")
}

// Run executes the archive delete command.
func (c *ArchiveDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return magdoc.Errorf(magdoc.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, c.ID); err != nil {
		if magdoc.ErrorCode(err) == magdoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'magdoc archive list' to see archived articles.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", magdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %s\n", c.ID)
	return nil
}
