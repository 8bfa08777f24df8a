// Package analysis aggregates complaint counts and resolution times.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/models"
)

// NoResolutions is reported as the average when nothing has been resolved.
const NoResolutions = "N/A"

type Summary struct {
	Total             int    `json:"total"`
	Pending           int    `json:"pending"`
	Resolved          int    `json:"resolved"`
	AvgResolutionTime string `json:"avgResolutionTime"`
}

// Bucket is one row of a breakdown.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summarize computes the dashboard figures. Pending is everything not
// Resolved or Closed; the average covers Resolved complaints only and uses
// whole elapsed days between submission and last update.
func Summarize(complaints []models.Complaint) Summary {
	s := Summary{Total: len(complaints), AvgResolutionTime: NoResolutions}

	var days int
	for i := range complaints {
		c := &complaints[i]
		switch c.Status {
		case models.StatusResolved:
			s.Resolved++
			days += wholeDays(c.DateUpdated.Sub(c.DateSubmitted))
		case models.StatusClosed:
		default:
			s.Pending++
		}
	}

	if s.Resolved > 0 {
		s.AvgResolutionTime = fmt.Sprintf("%.1f Days", float64(days)/float64(s.Resolved))
	}
	return s
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// ByStatus counts complaints per status in lifecycle order. Statuses with no
// complaints are included with a zero count.
func ByStatus(complaints []models.Complaint) []Bucket {
	counts := countBy(complaints, func(c *models.Complaint) string { return c.Status })

	buckets := make([]Bucket, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		buckets = append(buckets, Bucket{Key: status, Count: counts[status]})
		delete(counts, status)
	}
	return append(buckets, sorted(counts)...)
}

// ByDepartment counts complaints per department, largest first.
func ByDepartment(complaints []models.Complaint) []Bucket {
	buckets := sorted(countBy(complaints, func(c *models.Complaint) string { return c.Department }))
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

// ByPriority counts complaints per priority, most urgent first.
func ByPriority(complaints []models.Complaint) []Bucket {
	buckets := sorted(countBy(complaints, func(c *models.Complaint) string { return c.Priority }))
	sort.SliceStable(buckets, func(i, j int) bool {
		return GetWeight(buckets[i].Key) > GetWeight(buckets[j].Key)
	})
	return buckets
}

// GetWeight returns the ordering weight of a priority, 0 if unknown.
func GetWeight(priority string) int {
	return config.PriorityWeights[priority]
}

func countBy(complaints []models.Complaint, key func(c *models.Complaint) string) map[string]int {
	counts := make(map[string]int)
	for i := range complaints {
		counts[key(&complaints[i])]++
	}
	return counts
}

// sorted turns counts into buckets ordered by key.
func sorted(counts map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}
