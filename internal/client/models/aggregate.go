package models

import "sort"

// Summary holds per-dimension averages over a set of ratings.
type Summary struct {
	Count            int     `json:"count"`
	AvgArticle       float64 `json:"avg_article"`
	AvgShipping      float64 `json:"avg_shipping"`
	AvgCommunication float64 `json:"avg_communication"`
	AvgOverall       float64 `json:"avg_overall"`
}

type scores struct {
	article, shipping, communication uint8
}

func summarize(items []scores) Summary {
	if len(items) == 0 {
		return Summary{}
	}
	var a, s, c, overall float64
	for _, it := range items {
		a += float64(it.article)
		s += float64(it.shipping)
		c += float64(it.communication)
		// each record contributes its own mean
		overall += (float64(it.article) + float64(it.shipping) + float64(it.communication)) / 3
	}
	n := float64(len(items))
	return Summary{
		Count:            len(items),
		AvgArticle:       a / n,
		AvgShipping:      s / n,
		AvgCommunication: c / n,
		AvgOverall:       overall / n,
	}
}

// Aggregate averages each dimension over records. AvgOverall is the mean of
// the per-record means. An empty input yields the zero Summary.
func Aggregate(records []RatingRecord) Summary {
	items := make([]scores, 0, len(records))
	for _, r := range records {
		items = append(items, scores{r.ArticleScore, r.ShippingScore, r.CommunicationScore})
	}
	return summarize(items)
}

// AggregateRatings is Aggregate over display ratings.
func AggregateRatings(ratings []Rating) Summary {
	items := make([]scores, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, scores{r.Article, r.Shipping, r.Communication})
	}
	return summarize(items)
}

// GroupBySubject aggregates ratings per subject id.
func GroupBySubject(ratings []Rating) map[uint32]Summary {
	groups := make(map[uint32][]Rating)
	for _, r := range ratings {
		groups[r.SubjectID] = append(groups[r.SubjectID], r)
	}
	out := make(map[uint32]Summary, len(groups))
	for id, rs := range groups {
		out[id] = AggregateRatings(rs)
	}
	return out
}

// SubjectIDs returns the keys of a GroupBySubject result in ascending order.
func SubjectIDs(groups map[uint32]Summary) []uint32 {
	ids := make([]uint32, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
