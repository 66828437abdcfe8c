package jsonl

import (
	"bufio"
	"io"

	rf "github.com/jbouffard/rasterframes"
)

const (
	defaultPartitionSize = 128
	defaultMaxLineSize   = 64 * 1024 * 1024
)

// ParserConf configures a JSONL Parser for raster rows, one row per line
type ParserConf struct {
	PartitionSize int // Maximum number of raster rows per Partition. Defaults to 128.
	HeaderLines   int // Lines skipped at the start of each shard. Defaults to 0.
	MaxBufferSize int // Longest line in bytes, which bounds the largest encoded tile. Defaults to 64MiB.
}

func (c ParserConf) withDefaults() ParserConf {
	if c.PartitionSize <= 0 {
		c.PartitionSize = defaultPartitionSize
	}
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = defaultMaxLineSize
	}
	return c
}

// Parser turns JSON lines into Partitions of raster rows
type Parser struct {
	conf ParserConf
}

// CreateParser returns a Parser for conf. Each Schema column is read from its gjson path,
// and fields that match no column are ignored. conf is copied, so later changes to it
// have no effect.
func CreateParser(conf *ParserConf) *Parser {
	return &Parser{conf: conf.withDefaults()}
}

// PartitionSize returns the maximum number of rows per Partition
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

// Parse wraps r in a PartitionIterator. onIteratorEnd, if non-nil, fires once r is exhausted.
func (p *Parser) Parse(r io.Reader, source rf.DataSource, schema rf.Schema, onIteratorEnd func()) (rf.PartitionIterator, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)
	for i := 0; i < p.conf.HeaderLines; i++ {
		if !scanner.Scan() {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	iterator := &jsonlFilePartitionIterator{
		parser:       p,
		scanner:      scanner,
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
