package accumulators

import (
	"bytes"
	"encoding/gob"
	"fmt"

	rf "github.com/jbouffard/rasterframes"
)

// Compose returns a new Composed Accumulator
func Compose(faccs ...rf.AccumulatorFactory) rf.AccumulatorFactory {
	return func() rf.Accumulator {
		accs := make([]rf.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators
type Composed struct {
	accs []rf.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []rf.Accumulator {
	return c.accs
}

// Row returns the results of all contained Named Accumulators, by result name
func (c *Composed) Row() map[string]interface{} {
	res := make(map[string]interface{}, len(c.accs))
	for _, a := range c.accs {
		if named, ok := a.(Named); ok {
			res[named.Name()] = named.Value()
		}
	}
	return res
}

// Names returns the result names of all contained Named Accumulators, in order
func (c *Composed) Names() []string {
	names := make([]string, 0, len(c.accs))
	for _, a := range c.accs {
		if named, ok := a.(Named); ok {
			names = append(names, named.Name())
		}
	}
	return names
}

// Accumulate adds a row to all contained Accumulators
func (c *Composed) Accumulate(row rf.Row) error {
	for _, a := range c.accs {
		err := a.Accumulate(row)
		if err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Composed Accumulator into this one, merging all contained Accumulators
func (c *Composed) Merge(o rf.Accumulator) error {
	compa, ok := o.(*Composed)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Composed Accumulator")
	}
	if len(compa.accs) != len(c.accs) {
		return fmt.Errorf("Cannot merge Composed Accumulators of %d and %d Accumulators", len(c.accs), len(compa.accs))
	}
	for i, a := range c.accs {
		err := a.Merge(compa.accs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// ToBytes serializes this Accumulator
func (c *Composed) ToBytes() ([]byte, error) {
	result := make([][]byte, len(c.accs))
	for i, a := range c.accs {
		buff, err := a.ToBytes()
		if err != nil {
			return nil, err
		}
		result[i] = buff
	}
	buff := new(bytes.Buffer)
	e := gob.NewEncoder(buff)
	err := e.Encode(result)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// FromBytes produce a new Accumulator from serialized data
func (c *Composed) FromBytes(buff []byte) (rf.Accumulator, error) {
	var deser [][]byte
	d := gob.NewDecoder(bytes.NewBuffer(buff))
	err := d.Decode(&deser)
	if err != nil {
		return nil, err
	}
	if len(deser) != len(c.accs) {
		return nil, fmt.Errorf("Expected %d serialized Accumulators, got %d", len(c.accs), len(deser))
	}
	newAcs := make([]rf.Accumulator, len(c.accs))
	for i, b := range deser {
		a, err := c.accs[i].FromBytes(b)
		if err != nil {
			return nil, err
		}
		newAcs[i] = a
	}
	return &Composed{accs: newAcs}, nil
}
