package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/version"
)

type metricValue struct {
	Value       float64
	LabelValues []string
}

// collector implements the prometheus.Collector interface
type collector struct {
	desc        *prometheus.Desc
	valueType   prometheus.ValueType
	collectFunc func() []metricValue
}

func newCollector(opts prometheus.Opts, valueType prometheus.ValueType, variableLabels []string, collectFunc func() []metricValue) *collector {
	fqname := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	return &collector{
		desc:        prometheus.NewDesc(fqname, opts.Help, variableLabels, opts.ConstLabels),
		valueType:   valueType,
		collectFunc: collectFunc,
	}
}

// NewGaugeCollector creates a collector with type Gauge
func NewGaugeCollector(opts prometheus.Opts, variableLabels []string, collectFunc func() []metricValue) *collector {
	return newCollector(opts, prometheus.GaugeValue, variableLabels, collectFunc)
}

// Describe is implemented by DescribeByCollect
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect creates a set of constant metrics with the values and labels as
// described by collectFunc
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, metricValue := range c.collectFunc() {
		ch <- prometheus.MustNewConstMetric(c.desc, c.valueType, metricValue.Value, metricValue.LabelValues...)
	}
}

var machineStatuses = []api.MachineStatus{
	api.MachineStatusOnline,
	api.MachineStatusBusy,
	api.MachineStatusError,
	api.MachineStatusMaintenance,
	api.MachineStatusOffline,
}

var commandStatuses = []api.CommandStatus{
	api.CommandStatusPending,
	api.CommandStatusSent,
	api.CommandStatusReceived,
	api.CommandStatusExecuting,
	api.CommandStatusCompleted,
	api.CommandStatusFailed,
	api.CommandStatusTimeout,
}

func machineStatusCounts(db *gorm.DB) func() []metricValue {
	return func() []metricValue {
		values := make([]metricValue, 0, len(machineStatuses))
		for _, status := range machineStatuses {
			n, err := data.CountMachinesByStatus(db, status)
			if err != nil {
				logging.L.Warn().Err(err).Str("status", string(status)).Msg("machine status counts")
				continue
			}
			values = append(values, metricValue{
				Value:       float64(n),
				LabelValues: []string{string(status)},
			})
		}
		return values
	}
}

func commandStatusCounts(db *gorm.DB) func() []metricValue {
	return func() []metricValue {
		values := make([]metricValue, 0, len(commandStatuses))
		for _, status := range commandStatuses {
			n, err := data.CountCommandsByStatus(db, status)
			if err != nil {
				logging.L.Warn().Err(err).Str("status", string(status)).Msg("command status counts")
				continue
			}
			values = append(values, metricValue{
				Value:       float64(n),
				LabelValues: []string{string(status)},
			})
		}
		return values
	}
}

func setupMetrics(db *gorm.DB) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	if rawDB, err := db.DB(); err == nil {
		registry.MustRegister(collectors.NewDBStatsCollector(rawDB, db.Dialector.Name()))
	}

	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant '1' value labeled by the version from which fleet was built",
		ConstLabels: prometheus.Labels{
			"version": version.GetFormattedVersion(),
		},
	}, func() float64 { return 1 }))

	registry.MustRegister(NewGaugeCollector(prometheus.Opts{
		Namespace: "fleet",
		Name:      "machines",
		Help:      "The number of machines by status",
	}, []string{"status"}, machineStatusCounts(db)))

	registry.MustRegister(NewGaugeCollector(prometheus.Opts{
		Namespace: "fleet",
		Name:      "commands",
		Help:      "The number of commands by status",
	}, []string{"status"}, commandStatusCounts(db)))

	registry.MustRegister(NewGaugeCollector(prometheus.Opts{
		Namespace: "fleet",
		Name:      "organizations",
		Help:      "The number of organizations",
	}, []string{}, func() []metricValue {
		n, err := data.CountOrganizations(db)
		if err != nil {
			logging.L.Warn().Err(err).Msg("organizations count")
			return []metricValue{}
		}
		return []metricValue{{Value: float64(n)}}
	}))

	return registry
}
