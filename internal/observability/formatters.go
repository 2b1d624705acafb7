// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/ananya/resumatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMarketSnapshot outputs a summary of the fetched market data.
func (p *Printer) PrintMarketSnapshot(snapshot *types.MarketSnapshot) {
	if snapshot == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:      %s\n", snapshot.Role))
	sb.WriteString(fmt.Sprintf("Postings:  %d\n", len(snapshot.Jobs)))
	sb.WriteString("\n")

	if len(snapshot.SkillFrequencies) > 0 {
		sb.WriteString("Top Skills in Demand:\n")
		count := min(len(snapshot.SkillFrequencies), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := snapshot.SkillFrequencies[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d mentions)\n", rec.Keyword, rec.Frequency))
		}
		if len(snapshot.SkillFrequencies) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(snapshot.SkillFrequencies)-maxItemsToShow))
		}
	}

	p.printBox("MARKET SNAPSHOT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGaps outputs the detected skill gaps with severity markers.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSkillGaps(gaps []types.SkillGap) {
	if len(gaps) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO SKILL GAPS DETECTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d gaps:\n\n", len(gaps)))

	count := min(len(gaps), maxItemsToShow)
	for i := 0; i < count; i++ {
		gap := gaps[i]
		marker := "•"
		if gap.Severity == types.SeverityCritical {
			marker = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, gap.Skill))
		sb.WriteString(fmt.Sprintf("  Importance: %d (%s)\n", gap.Importance, gap.Severity))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(gaps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more gaps", len(gaps)-maxItemsToShow))
	}

	p.printBox("DETECTED SKILL GAPS", sb.String())
}

// PrintReport outputs the final analysis report: role, match score, radar
// summary, roadmap, and recommended jobs.
func (p *Printer) PrintReport(report *types.AnalysisReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:         %s\n", report.DetectedRole))
	sb.WriteString(fmt.Sprintf("Match Score:  %d/100\n", report.MatchScore))
	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Degraded:     %s\n", truncateLine(report.Error, 40)))
	}
	sb.WriteString("\n")

	if strengths := report.Strengths(); len(strengths) > 0 {
		skills := strings.Join(strengths, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Strengths:  %s\n", skills))
	}
	if gapSkills := report.GapSkills(); len(gapSkills) > 0 {
		skills := strings.Join(gapSkills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Gaps:       %s\n", skills))
	}

	p.printBox("ANALYSIS REPORT", strings.TrimSuffix(sb.String(), "\n"))
	p.printRoadmap(report.Roadmap)
	p.printJobs(report.RecommendedJobs)
}

// printRoadmap outputs the month-by-month learning plan.
func (p *Printer) printRoadmap(items []types.RoadmapItem) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("Month %d: %s\n", item.Month, item.Skill))
		sb.WriteString(fmt.Sprintf("  %s\n", truncateLine(item.CourseTitle, 48)))
		if item.Status == types.StatusBonus {
			sb.WriteString("  (bonus)\n")
		}
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LEARNING ROADMAP", sb.String())
}

// printJobs outputs the recommended job matches.
func (p *Printer) printJobs(jobs []types.JobMatch) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, truncateLine(job.Title, 48)))
		sb.WriteString(fmt.Sprintf("    %s", job.Company))
		if job.MatchScore > 0 {
			sb.WriteString(fmt.Sprintf(" (match: %d)", job.MatchScore))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDED JOBS", sb.String())
}

func truncateLine(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
