// Package export converts a mission's submissions and votes into
// spreadsheet rows and writes them to a Google Sheets destination, one tab
// per mission.
package export

import (
	"fmt"

	"mission-bot/models"
)

// NoScore marks a submission that received zero votes.
const NoScore = "N/A"

// BuildRows produces the header and one row per submission. Judge columns
// appear in first-observed order across the mission's submissions; a judge
// who did not score a submission gets a blank cell in that row.
func BuildRows(subs []models.Submission) (header []string, rows [][]string) {
	var judges []string
	seen := make(map[string]bool)
	labels := make(map[string]string)
	for _, sub := range subs {
		for _, v := range sub.Votes {
			if !seen[v.JudgeID] {
				seen[v.JudgeID] = true
				judges = append(judges, v.JudgeID)
			}
			labels[v.JudgeID] = v.JudgeTag
		}
	}

	header = []string{"Author", "Content", "URL", "Submitted", "Average"}
	for _, id := range judges {
		label := labels[id]
		if label == "" {
			label = id
		}
		header = append(header, label)
	}

	for _, sub := range subs {
		avg := NoScore
		if mean, ok := sub.AverageScore(); ok {
			avg = fmt.Sprintf("%.2f", mean)
		}
		url := ""
		if len(sub.URLs) > 0 {
			url = sub.URLs[0]
		}
		row := []string{
			sub.AuthorTag,
			sub.Content,
			url,
			sub.SubmittedAt.Format("2006-01-02 15:04"),
			avg,
		}
		for _, id := range judges {
			if v, ok := sub.VoteBy(id); ok {
				row = append(row, fmt.Sprintf("%d", v.Score))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}
