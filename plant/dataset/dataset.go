// Package dataset embeds the labelled training records and the species
// reference table.
//
// Both resources are decoded once; accessors hand out copies so callers
// cannot alter the shared data.
package dataset

import (
	_ "embed"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ezoic/plantcare/plant"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

//go:embed flowers.yaml
var flowersYAML []byte

//go:embed species.yaml
var speciesYAML []byte

type recordsFile struct {
	Records []plant.Record `yaml:"records"`
}

type speciesFile struct {
	Species []plant.SpeciesIdeal `yaml:"species"`
}

var (
	embeddedRecords = sync.OnceValues(func() ([]plant.Record, error) {
		return ParseRecords(flowersYAML)
	})
	embeddedIdeals = sync.OnceValues(func() (*plant.IdealTable, error) {
		return ParseIdeals(speciesYAML)
	})
)

// Records returns a copy of the embedded training records in file order.
func Records() ([]plant.Record, error) {
	records, err := embeddedRecords()
	if err != nil {
		return nil, err
	}
	return append([]plant.Record(nil), records...), nil
}

// Ideals returns the embedded species reference table.
func Ideals() (*plant.IdealTable, error) {
	return embeddedIdeals()
}

// ParseRecords decodes and validates a records document.
func ParseRecords(data []byte) ([]plant.Record, error) {
	var f recordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, pcErrors.Wrap(err, "dataset: decode records")
	}
	if len(f.Records) == 0 {
		return nil, pcErrors.Wrap(pcErrors.ErrEmptyData, "dataset: no records")
	}
	for i, r := range f.Records {
		if err := r.Validate(); err != nil {
			return nil, pcErrors.Wrapf(err, "dataset: record %d", i)
		}
	}

	log.GetLoggerWithName("dataset").Debug("Records loaded",
		log.OperationKey, log.OperationLoadData,
		log.SamplesKey, len(f.Records),
	)
	return f.Records, nil
}

// ParseIdeals decodes a species document into an IdealTable.
func ParseIdeals(data []byte) (*plant.IdealTable, error) {
	var f speciesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, pcErrors.Wrap(err, "dataset: decode species")
	}
	table, err := plant.NewIdealTable(f.Species)
	if err != nil {
		return nil, pcErrors.Wrap(err, "dataset: species")
	}
	return table, nil
}

// Decode reads one YAML document into v, e.g. an observation file given on
// the command line. Unknown keys are rejected.
func Decode(r io.Reader, v interface{}) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return pcErrors.Wrap(err, "dataset: decode")
	}
	return nil
}
