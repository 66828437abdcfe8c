package main

import (
	"fmt"
	"os"
	"strings"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource/parser/dsv"
	"github.com/jbouffard/rasterframes/datasource/parser/jsonl"
	"github.com/jbouffard/rasterframes/functions"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/jbouffard/rasterframes/tile"
	"sigs.k8s.io/yaml"
)

// ColumnConfig declares a single column of the input rows
type ColumnConfig struct {
	Name   string `json:"name"`             // a gjson path into each JSON line
	Type   string `json:"type"`             // one of the names accepted by parseColumnType
	Format string `json:"format,omitempty"` // time layout, for time and temporalKey columns
	Codec  string `json:"codec,omitempty"`  // tile codec, for tile columns
}

// Config describes a statistics job
type Config struct {
	Input           string         `json:"input"`           // glob of input files
	Format          string         `json:"format"`          // "jsonl" (default) or "dsv"
	Delimiter       string         `json:"delimiter"`       // column delimiter of dsv input. Defaults to ",".
	HeaderLines     int            `json:"headerLines"`     // lines skipped at the start of each dsv file
	Columns         []ColumnConfig `json:"columns"`         // the schema of the input rows
	Aggregates      []string       `json:"aggregates"`      // aggregate functions applied to every tile column. Defaults to all of them.
	Workers         int            `json:"workers"`         // defaults to GOMAXPROCS
	PartitionSize   int            `json:"partitionSize"`   // rows per Partition. Defaults to 128.
	LogLevel        string         `json:"logLevel"`        // defaults to "info"
	IgnoreRowErrors bool           `json:"ignoreRowErrors"` // drop unparseable rows instead of failing
}

var defaultAggregates = []string{"aggMean", "aggDataCells", "aggNoDataCells", "aggStats"}

// LoadConfig reads a YAML (or JSON) Config from disk
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML (or JSON) Config
func ParseConfig(data []byte) (*Config, error) {
	conf := &Config{}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if len(conf.Aggregates) == 0 {
		conf.Aggregates = defaultAggregates
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}
	if conf.Format == "" {
		conf.Format = "jsonl"
	}
	return conf, nil
}

// Parser builds the DataSourceParser for the configured input format
func (c *Config) Parser() (rf.DataSourceParser, error) {
	switch strings.ToLower(c.Format) {
	case "jsonl":
		return jsonl.CreateParser(&jsonl.ParserConf{PartitionSize: c.PartitionSize, HeaderLines: c.HeaderLines}), nil
	case "dsv":
		var delim rune
		if c.Delimiter != "" {
			runes := []rune(c.Delimiter)
			if len(runes) != 1 {
				return nil, fmt.Errorf("delimiter %q must be a single character", c.Delimiter)
			}
			delim = runes[0]
		}
		return dsv.CreateParser(&dsv.ParserConf{PartitionSize: c.PartitionSize, HeaderLines: c.HeaderLines, Delimiter: delim}), nil
	}
	return nil, fmt.Errorf("unknown input format %q", c.Format)
}

// Schema builds the input Schema described by this Config
func (c *Config) Schema() (rf.Schema, error) {
	if len(c.Columns) == 0 {
		return nil, fmt.Errorf("config declares no columns")
	}
	s := schema.CreateSchema()
	for _, col := range c.Columns {
		colType, err := parseColumnType(col)
		if err != nil {
			return nil, err
		}
		if _, err := s.CreateColumn(col.Name, colType); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Expressions returns the configured aggregates for every Tile column of a Schema
func (c *Config) Expressions(s rf.Schema) ([]*functions.Expression, error) {
	tileCols, err := schema.TileColumns(s)
	if err != nil {
		return nil, err
	}
	if len(tileCols) == 0 {
		return nil, fmt.Errorf("config declares no tile columns")
	}
	exprs := make([]*functions.Expression, 0, len(tileCols)*len(c.Aggregates))
	for _, name := range c.Aggregates {
		desc, err := functions.Lookup(name)
		if err != nil {
			return nil, err
		}
		if !desc.Aggregate {
			return nil, fmt.Errorf("%s is not an aggregate function", desc.Name)
		}
		for _, col := range tileCols {
			expr, err := functions.Invoke(desc.Name, functions.Col(col))
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
	}
	return exprs, nil
}

func parseColumnType(col ColumnConfig) (rf.ColumnType, error) {
	switch strings.ToLower(col.Type) {
	case "bool":
		return &rf.BoolColumnType{}, nil
	case "int32":
		return &rf.Int32ColumnType{}, nil
	case "int64":
		return &rf.Int64ColumnType{}, nil
	case "float64":
		return &rf.Float64ColumnType{}, nil
	case "string":
		return &rf.VarStringColumnType{}, nil
	case "bytes":
		return &rf.VarBytesColumnType{}, nil
	case "time":
		return &rf.TimeColumnType{Format: col.Format}, nil
	case "temporalkey":
		return &rf.TemporalKeyColumnType{TimeColumnType: rf.TimeColumnType{Format: col.Format}}, nil
	case "spatialkey":
		return &rf.SpatialKeyColumnType{}, nil
	case "extent":
		return &rf.ExtentColumnType{}, nil
	case "geometry":
		return &rf.GeometryColumnType{}, nil
	case "tile":
		codec := tile.NoCompression
		if col.Codec != "" {
			var err error
			if codec, err = tile.ParseCodec(col.Codec); err != nil {
				return nil, err
			}
		}
		return &rf.TileColumnType{Codec: codec}, nil
	}
	return nil, fmt.Errorf("column %s has unknown type %q", col.Name, col.Type)
}
