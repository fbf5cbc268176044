// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/proposal"
	"github.com/jonathan/proposal-writer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxPreviewLines bounds the job description preview
	maxPreviewLines = 8
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// SetVerbose makes the printer show full text instead of previews.
func (p *Printer) SetVerbose(v bool) {
	p.verbose = v
}

// printBox prints a formatted box with a title and content. Lines longer
// than the box are wrapped on word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintGeneratedProposal outputs a drafted proposal and its cover letter.
func (p *Printer) PrintGeneratedProposal(result *proposal.GeneratedProposal) {
	if result == nil {
		return
	}

	p.printBox("PROPOSAL", result.Proposal)
	if result.CoverLetter != "" {
		p.printBox("COVER LETTER", result.CoverLetter)
	}

	//nolint:errcheck // writing to stdout
	fmt.Fprintf(p.out, "Model: %s   Confidence: %d%%\n", result.AIModel, result.ConfidenceScore)
}

// PrintImportedJob outputs the fields read from a job posting link.
func (p *Printer) PrintImportedJob(job *types.ImportedJob) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.JobTitle))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", job.Platform))
	sb.WriteString(fmt.Sprintf("Link:     %s\n", job.JobLink))
	sb.WriteString("\n")

	desc := strings.TrimSpace(job.JobDescription)
	if desc == "" {
		sb.WriteString("(no description found)")
	} else if p.verbose {
		sb.WriteString(desc)
	} else {
		lines := strings.Split(desc, "\n")
		if len(lines) > maxPreviewLines {
			sb.WriteString(strings.Join(lines[:maxPreviewLines], "\n"))
			sb.WriteString(fmt.Sprintf("\n... and %d more lines", len(lines)-maxPreviewLines))
		} else {
			sb.WriteString(desc)
		}
	}

	p.printBox("IMPORTED JOB", sb.String())
}

// PrintProviderStatus outputs the result of a provider readiness check.
func (p *Printer) PrintProviderStatus(status *llm.Status) {
	if status == nil {
		return
	}

	mark := "✅"
	if !status.Configured || !status.Reachable {
		mark = "❌"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Provider: %s\n", status.Provider))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", status.Model))
	sb.WriteString(fmt.Sprintf("Key set:  %s\n", yesNo(status.Configured)))
	sb.WriteString("\n")
	sb.WriteString(mark + " " + status.Message)

	p.printBox("PROVIDER STATUS", sb.String())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// wrap splits s into lines of at most width runes, breaking on spaces
// where possible.
func wrap(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}

	var lines []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}
