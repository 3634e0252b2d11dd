package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/models"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/submissions"
)

func renderRatings(w io.Writer, ratings []models.Rating) {
	if len(ratings) == 0 {
		fmt.Fprintln(w, "No ratings yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tSELLER\tARTICLE\tSHIPPING\tCOMM.\tOVERALL\tCOMMENT")
	for _, r := range ratings {
		fmt.Fprintf(tw, "%d\t%s\t%s (#%d)\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Date, r.SubjectLabel, r.SubjectID,
			r.Article, r.Shipping, r.Communication,
			models.FormatScore(r.Overall()), r.Comment)
	}
	_ = tw.Flush()
}

func renderSummary(w io.Writer, s models.Summary) {
	fmt.Fprintf(w, "%d ratings, article %s, shipping %s, communication %s, overall %s\n",
		s.Count,
		models.FormatScore(s.AvgArticle),
		models.FormatScore(s.AvgShipping),
		models.FormatScore(s.AvgCommunication),
		models.FormatScore(s.AvgOverall))
}

func renderSubjectSummaries(w io.Writer, groups map[uint32]models.Summary, label func(uint32) string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SELLER\tRATINGS\tARTICLE\tSHIPPING\tCOMM.\tOVERALL")
	for _, id := range models.SubjectIDs(groups) {
		s := groups[id]
		fmt.Fprintf(tw, "%s (#%d)\t%d\t%s\t%s\t%s\t%s\n",
			label(id), id, s.Count,
			models.FormatScore(s.AvgArticle),
			models.FormatScore(s.AvgShipping),
			models.FormatScore(s.AvgCommunication),
			models.FormatScore(s.AvgOverall))
	}
	_ = tw.Flush()
}

func renderHistory(w io.Writer, items []submissions.Submission) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing submitted from this machine yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBMITTED\tSELLER\tA/S/C\tHASH")
	for _, s := range items {
		fmt.Fprintf(tw, "%s\t#%d\t%d/%d/%d\t%s\n",
			s.SubmittedAt.UTC().Format("2006-01-02 15:04"), s.SubjectID,
			s.Article, s.Shipping, s.Communication, s.Hash)
	}
	_ = tw.Flush()
}
