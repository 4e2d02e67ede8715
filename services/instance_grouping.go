package services

import (
	"sort"

	"legal_office_go/models"
)

// InstanceGroups partitions a firm's cases by court degree. Instance comes
// from provider metadata only; it is never inferred from the case number,
// which does not reliably encode it.
type InstanceGroups struct {
	FirstInstance  []models.CaseRecord `json:"first_instance"`
	SecondInstance []models.CaseRecord `json:"second_instance"`
	Unclassified   []models.CaseRecord `json:"unclassified"`
}

// GroupByInstance partitions records into first/second/unclassified buckets.
// Within each bucket, ordering is the persisted display order with creation
// time breaking ties.
func GroupByInstance(records []models.CaseRecord) InstanceGroups {
	groups := InstanceGroups{
		FirstInstance:  []models.CaseRecord{},
		SecondInstance: []models.CaseRecord{},
		Unclassified:   []models.CaseRecord{},
	}

	for _, r := range records {
		switch r.Instance {
		case models.InstanceFirst:
			groups.FirstInstance = append(groups.FirstInstance, r)
		case models.InstanceSecond:
			groups.SecondInstance = append(groups.SecondInstance, r)
		default:
			groups.Unclassified = append(groups.Unclassified, r)
		}
	}

	sortCaseBucket(groups.FirstInstance)
	sortCaseBucket(groups.SecondInstance)
	sortCaseBucket(groups.Unclassified)

	return groups
}

func sortCaseBucket(bucket []models.CaseRecord) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].DisplayOrder != bucket[j].DisplayOrder {
			return bucket[i].DisplayOrder < bucket[j].DisplayOrder
		}
		return bucket[i].CreatedAt.Before(bucket[j].CreatedAt)
	})
}
