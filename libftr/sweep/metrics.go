package sweep

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var treesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ftrgraph_trees_built",
	Help: "Number of merge trees built",
}, []string{"tree_type"})

var verticesSwept = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ftrgraph_vertices_swept",
	Help: "Number of vertices swept by propagations",
})

var saddlesFound = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ftrgraph_saddles_found",
	Help: "Number of saddles where propagations were merged",
})

var propagationsMerged = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ftrgraph_propagations_merged",
	Help: "Number of propagations absorbed at saddles",
})

var sweepStalls = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ftrgraph_sweep_stalls",
	Help: "Number of times the sweep worklist ran dry before every vertex was swept",
})

func (st *Stats) export(treeType string) {
	treesBuilt.WithLabelValues(treeType).Inc()
	verticesSwept.Add(float64(st.Swept))
	saddlesFound.Add(float64(st.Saddles))
	propagationsMerged.Add(float64(st.Merges))
	sweepStalls.Add(float64(st.Stalls))
}
