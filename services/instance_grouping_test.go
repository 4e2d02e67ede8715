package services

import (
	"testing"
	"time"

	"legal_office_go/models"

	"github.com/stretchr/testify/assert"
)

func TestGroupByInstance(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	records := []models.CaseRecord{
		{ID: "a", Instance: models.InstanceFirst, DisplayOrder: 2, CreatedAt: base},
		{ID: "b", Instance: models.InstanceSecond, DisplayOrder: 1, CreatedAt: base},
		{ID: "c", Instance: models.InstanceFirst, DisplayOrder: 1, CreatedAt: base},
		{ID: "d", Instance: models.InstanceUnknown, DisplayOrder: 0, CreatedAt: base},
		{ID: "e", Instance: models.InstanceFirst, DisplayOrder: 1, CreatedAt: base.Add(time.Hour)},
		{ID: "f", Instance: 7, DisplayOrder: 0, CreatedAt: base}, // garbage degree still lands somewhere
	}

	groups := GroupByInstance(records)

	assert.Len(t, groups.FirstInstance, 3)
	assert.Len(t, groups.SecondInstance, 1)
	assert.Len(t, groups.Unclassified, 2)

	// Display order first, creation time breaks ties
	assert.Equal(t, "c", groups.FirstInstance[0].ID)
	assert.Equal(t, "e", groups.FirstInstance[1].ID)
	assert.Equal(t, "a", groups.FirstInstance[2].ID)
}

func TestGroupByInstance_Empty(t *testing.T) {
	groups := GroupByInstance(nil)
	assert.Empty(t, groups.FirstInstance)
	assert.Empty(t, groups.SecondInstance)
	assert.Empty(t, groups.Unclassified)
}

func TestGroupByInstance_Pure(t *testing.T) {
	records := []models.CaseRecord{
		{ID: "a", Instance: models.InstanceFirst},
		{ID: "b", Instance: models.InstanceSecond},
	}

	first := GroupByInstance(records)
	second := GroupByInstance(records)
	assert.Equal(t, first, second)
	// input order untouched
	assert.Equal(t, "a", records[0].ID)
}
