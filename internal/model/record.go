package model

import (
	"maps"
	"time"
)

// Record captures the configuration and outcome of a single algorithm run.
//
// Records are values: every With* method returns an updated copy and never
// mutates the receiver, so a partially configured record can be shared and
// extended along several branches without aliasing. Nothing is validated;
// callers own the meaning of negative lengths, empty names and so on.
type Record struct {
	AlgorithmName     string             `json:"algorithm_name" msgpack:"algorithm_name" yaml:"algorithm_name"`
	Parameters        map[string]string  `json:"parameters" msgpack:"parameters" yaml:"parameters"`
	RouteLength       float64            `json:"route_length" msgpack:"route_length" yaml:"route_length"`
	Route             []int              `json:"route" msgpack:"route" yaml:"route"`
	ExecutionTimeMS   uint64             `json:"execution_time_ms" msgpack:"execution_time_ms" yaml:"execution_time_ms"`
	Iterations        uint32             `json:"iterations" msgpack:"iterations" yaml:"iterations"`
	StartTimestamp    time.Time          `json:"start_timestamp" msgpack:"start_timestamp" yaml:"start_timestamp"`
	AdditionalMetrics map[string]float64 `json:"additional_metrics" msgpack:"additional_metrics" yaml:"additional_metrics"`
	DatasetName       string             `json:"dataset_name,omitempty" msgpack:"dataset_name,omitempty" yaml:"dataset_name,omitempty"`
	DatasetSize       int                `json:"dataset_size,omitempty" msgpack:"dataset_size,omitempty" yaml:"dataset_size,omitempty"`
}

// NewRecord starts a record stamped with the current UTC time.
func NewRecord(name string) Record {
	return NewRecordAt(name, time.Now())
}

// NewRecordAt starts a record with an explicit start time, normalized to UTC.
func NewRecordAt(name string, start time.Time) Record {
	return Record{
		AlgorithmName:     name,
		Parameters:        map[string]string{},
		Route:             []int{},
		StartTimestamp:    start.UTC(),
		AdditionalMetrics: map[string]float64{},
	}
}

func (r Record) WithParameter(key, value string) Record {
	params := maps.Clone(r.Parameters)
	if params == nil {
		params = make(map[string]string, 1)
	}
	params[key] = value
	r.Parameters = params
	return r
}

func (r Record) WithMetric(key string, value float64) Record {
	metrics := maps.Clone(r.AdditionalMetrics)
	if metrics == nil {
		metrics = make(map[string]float64, 1)
	}
	metrics[key] = value
	r.AdditionalMetrics = metrics
	return r
}

// WithResult sets the route and its length together.
func (r Record) WithResult(routeLength float64, route []int) Record {
	r.RouteLength = routeLength
	r.Route = append([]int{}, route...)
	return r
}

func (r Record) WithExecutionTime(ms uint64) Record {
	r.ExecutionTimeMS = ms
	return r
}

func (r Record) WithIterations(n uint32) Record {
	r.Iterations = n
	return r
}

// WithDataset tags the record with the instance it was run against.
func (r Record) WithDataset(name string, size int) Record {
	r.DatasetName = name
	r.DatasetSize = size
	return r
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.Parameters = maps.Clone(r.Parameters)
	r.AdditionalMetrics = maps.Clone(r.AdditionalMetrics)
	if r.Route != nil {
		r.Route = append([]int{}, r.Route...)
	}
	return r
}
