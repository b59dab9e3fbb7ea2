package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ludo-technologies/lshmatch/service"
)

// printError prints err with its category and recovery suggestions
func printError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(w, "%s %s\n", red.Sprint("❌ "+string(categorized.Category)+":"), categorized.Message)
	if categorized.Message != err.Error() {
		fmt.Fprintf(w, "   %v\n", err)
	}

	fmt.Fprintf(w, "\n💡 Suggestions:\n")
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", suggestion)
	}
}
