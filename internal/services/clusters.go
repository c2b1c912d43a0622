package services

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// DefaultClusterWindowDays is the temporal window within which two shocks can
// belong to the same cluster.
const DefaultClusterWindowDays = 30

// ClusterBuilder groups shocks into connected components linked by temporal
// proximity and positive spatial autocorrelation on both ends.
type ClusterBuilder struct {
	windowDays int
	logger     *logrus.Logger
}

// NewClusterBuilder creates a cluster builder with the given temporal window.
// Windows below 1 day fall back to DefaultClusterWindowDays.
func NewClusterBuilder(windowDays int, logger *logrus.Logger) *ClusterBuilder {
	if windowDays < 1 {
		windowDays = DefaultClusterWindowDays
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ClusterBuilder{
		windowDays: windowDays,
		logger:     logger,
	}
}

// BuildClusters performs a breadth-first union over shocks: starting from an
// unvisited shock, it expands to any other unvisited shock within the
// temporal window whose region, like the current one's, has strictly positive
// local correlation, repeating transitively. The visited set guarantees
// termination and that every shock lands in at most one cluster. Singleton
// components are discarded; only multi-shock clusters are reported. Missing
// spatial data yields an empty list and zero metrics.
func (b *ClusterBuilder) BuildClusters(shocks []models.Shock, spatial *models.SpatialCorrelation) models.ClusterResult {
	result := models.ClusterResult{Clusters: []models.Cluster{}}

	if len(shocks) == 0 || !spatial.Valid() {
		b.logger.Debug("Cluster building skipped: no shocks or spatial data")
		return result
	}

	ordered := make([]models.Shock, len(shocks))
	copy(ordered, shocks)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Region < ordered[j].Region
	})

	visited := make([]bool, len(ordered))
	clusteredRegions := make(map[string]struct{})
	allRegions := make(map[string]struct{})
	for _, s := range ordered {
		allRegions[s.Region] = struct{}{}
	}

	for i := range ordered {
		if visited[i] {
			continue
		}
		visited[i] = true

		component := []int{i}
		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			for j := range ordered {
				if visited[j] {
					continue
				}
				if !b.connected(ordered[cur], ordered[j], spatial) {
					continue
				}
				visited[j] = true
				component = append(component, j)
				queue = append(queue, j)
			}
		}

		if len(component) < 2 {
			continue
		}

		cluster := b.makeCluster(ordered, component)
		for _, r := range cluster.Regions {
			clusteredRegions[r] = struct{}{}
		}
		result.Clusters = append(result.Clusters, cluster)
	}

	result.Metrics = b.clusterMetrics(result.Clusters, len(clusteredRegions), len(allRegions))
	return result
}

// connected reports whether two shocks share a cluster edge: within the
// temporal window and both regions spatially correlated.
func (b *ClusterBuilder) connected(a, c models.Shock, spatial *models.SpatialCorrelation) bool {
	days := math.Abs(a.Date.Sub(c.Date).Hours() / 24)
	if days > float64(b.windowDays) {
		return false
	}
	return spatial.LocalIFor(a.Region) > 0 && spatial.LocalIFor(c.Region) > 0
}

func (b *ClusterBuilder) makeCluster(ordered []models.Shock, component []int) models.Cluster {
	sort.Ints(component)

	members := make([]models.Shock, 0, len(component))
	regionSet := make(map[string]struct{})
	intensity := 0.0
	for _, idx := range component {
		s := ordered[idx]
		members = append(members, s)
		regionSet[s.Region] = struct{}{}
		intensity += s.Magnitude
	}

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	start := members[0].Date
	end := members[len(members)-1].Date

	return models.Cluster{
		Shocks:           members,
		Regions:          regions,
		StartDate:        start,
		EndDate:          end,
		Intensity:        intensity,
		AverageIntensity: numeric.SafeDivide(intensity, float64(len(members)), 0),
		DurationDays:     end.Sub(start).Hours() / 24,
	}
}

func (b *ClusterBuilder) clusterMetrics(clusters []models.Cluster, clusteredRegions, allRegions int) models.ClusterMetrics {
	metrics := models.ClusterMetrics{TotalClusters: len(clusters)}
	if len(clusters) == 0 {
		return metrics
	}

	totalSize := 0
	totalIntensity := 0.0
	for _, c := range clusters {
		size := len(c.Shocks)
		totalSize += size
		if size > metrics.MaxClusterSize {
			metrics.MaxClusterSize = size
		}
		totalIntensity += c.AverageIntensity
	}

	metrics.AverageClusterSize = numeric.SafeDivide(float64(totalSize), float64(len(clusters)), 0)
	metrics.ClusterCoverage = numeric.SafeDivide(float64(clusteredRegions), float64(allRegions), 0)
	metrics.AverageIntensity = numeric.SafeDivide(totalIntensity, float64(len(clusters)), 0)

	return metrics
}
