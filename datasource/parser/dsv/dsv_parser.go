// Package dsv parses delimiter-separated RasterFrame rows. Tile columns hold base64 tile
// codec output and geometry columns hold hex-encoded WKB.
package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	rf "github.com/jbouffard/rasterframes"
)

// ParserConf configures a DSV Parser for raster rows, one record per row
type ParserConf struct {
	PartitionSize int    // Maximum number of raster rows per Partition. Defaults to 128.
	HeaderLines   int    // Records skipped at the start of each shard. Defaults to 0.
	Delimiter     rune   // Field separator. Defaults to ','. Base64 and hex never contain ',', '|' or '\t'.
	Comment       rune   // Records starting with this rune are skipped. Must differ from Delimiter. Defaults to none.
	NilValue      string // Field text marking a nil cell, in addition to the empty field.
}

func (c ParserConf) withDefaults() ParserConf {
	if c.PartitionSize <= 0 {
		c.PartitionSize = 128
	}
	if c.Delimiter == 0 {
		c.Delimiter = ','
	}
	return c
}

// Parser turns delimited records into Partitions of raster rows
type Parser struct {
	conf ParserConf
}

// CreateParser returns a Parser for a copy of conf
func CreateParser(conf *ParserConf) *Parser {
	return &Parser{conf: conf.withDefaults()}
}

// PartitionSize returns the maximum number of rows per Partition
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

// Parse wraps r in a PartitionIterator. Every record must carry one field per Schema column.
func (p *Parser) Parse(r io.Reader, source rf.DataSource, schema rf.Schema, onIteratorEnd func()) (rf.PartitionIterator, error) {
	if p.conf.Comment != 0 && p.conf.Comment == p.conf.Delimiter {
		return nil, fmt.Errorf("comment character %q cannot equal the delimiter", p.conf.Comment)
	}
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.FieldsPerRecord = schema.NumColumns()
	reader.ReuseRecord = true

	for i := 0; i < p.conf.HeaderLines; i++ {
		_, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}

	iterator := &dsvFilePartitionIterator{
		parser:       p,
		reader:       reader,
		hasNext:      true,
		source:       source,
		schema:       schema,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
