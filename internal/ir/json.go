package ir

import (
	"encoding/json"
	"fmt"
	"io"
)

// The on-disk JSON form: one object per code item. A label object has a
// "label" key; instruction objects are discriminated by "op" and the
// presence of "dest".

type jsonProgram struct {
	Functions []*jsonFunction `json:"functions"`
}

type jsonFunction struct {
	Name   string          `json:"name"`
	Args   []Argument      `json:"args,omitempty"`
	Type   Type            `json:"type,omitempty"`
	Instrs []jsonCode      `json:"instrs"`
	Pos    *Position       `json:"pos,omitempty"`
}

type jsonCode struct {
	Label  *string   `json:"label,omitempty"`
	Op     string    `json:"op,omitempty"`
	Dest   string    `json:"dest,omitempty"`
	Type   Type      `json:"type,omitempty"`
	Value  *Literal  `json:"value,omitempty"`
	Args   []string  `json:"args,omitempty"`
	Funcs  []string  `json:"funcs,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Pos    *Position `json:"pos,omitempty"`
}

// LoadProgram reads a JSON-encoded program from r.
func LoadProgram(r io.Reader) (*Program, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jp jsonProgram
	if err := dec.Decode(&jp); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	prog := &Program{}
	for _, jf := range jp.Functions {
		f, err := jf.decode()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, f)
	}
	return prog, nil
}

func (jf *jsonFunction) decode() (*Function, error) {
	f := &Function{
		Name:       jf.Name,
		Args:       jf.Args,
		ReturnType: jf.Type,
		Position:   jf.Pos,
	}
	for i, jc := range jf.Instrs {
		c, err := jc.decode()
		if err != nil {
			return nil, fmt.Errorf("function @%s, instruction %d: %w", jf.Name, i, err)
		}
		f.Instrs = append(f.Instrs, c)
	}
	return f, nil
}

func (jc *jsonCode) decode() (Code, error) {
	switch {
	case jc.Label != nil:
		return &Label{Name: *jc.Label, Position: jc.Pos}, nil
	case jc.Op == "":
		return nil, fmt.Errorf("instruction has neither label nor op")
	case jc.Op == "const":
		if jc.Value == nil {
			return nil, fmt.Errorf("const %q has no value", jc.Dest)
		}
		return &Constant{Dest: jc.Dest, Type: jc.Type, Value: *jc.Value, Position: jc.Pos}, nil
	case jc.Dest != "":
		return &Value{
			Op: ValueOp(jc.Op), Dest: jc.Dest, Type: jc.Type,
			Args: jc.Args, Funcs: jc.Funcs, Labels: jc.Labels, Position: jc.Pos,
		}, nil
	default:
		return &Effect{
			Op: EffectOp(jc.Op),
			Args: jc.Args, Funcs: jc.Funcs, Labels: jc.Labels, Position: jc.Pos,
		}, nil
	}
}

// MarshalJSON renders the program in the on-disk JSON form.
func (p *Program) MarshalJSON() ([]byte, error) {
	jp := jsonProgram{Functions: make([]*jsonFunction, len(p.Functions))}
	for i, f := range p.Functions {
		jp.Functions[i] = encodeFunction(f)
	}
	return json.Marshal(jp)
}

// UnmarshalJSON accepts the on-disk JSON form.
func (p *Program) UnmarshalJSON(data []byte) error {
	var jp jsonProgram
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	p.Functions = nil
	for _, jf := range jp.Functions {
		f, err := jf.decode()
		if err != nil {
			return err
		}
		p.Functions = append(p.Functions, f)
	}
	return nil
}

func encodeFunction(f *Function) *jsonFunction {
	jf := &jsonFunction{
		Name: f.Name,
		Args: f.Args,
		Type: f.ReturnType,
		Pos:  f.Position,
	}
	jf.Instrs = make([]jsonCode, len(f.Instrs))
	for i, c := range f.Instrs {
		jf.Instrs[i] = encodeCode(c)
	}
	return jf
}

func encodeCode(c Code) jsonCode {
	switch i := c.(type) {
	case *Label:
		return jsonCode{Label: &i.Name, Pos: i.Position}
	case *Constant:
		v := i.Value
		return jsonCode{Op: "const", Dest: i.Dest, Type: i.Type, Value: &v, Pos: i.Position}
	case *Value:
		return jsonCode{
			Op: string(i.Op), Dest: i.Dest, Type: i.Type,
			Args: i.Args, Funcs: i.Funcs, Labels: i.Labels, Pos: i.Position,
		}
	case *Effect:
		return jsonCode{
			Op: string(i.Op),
			Args: i.Args, Funcs: i.Funcs, Labels: i.Labels, Pos: i.Position,
		}
	}
	return jsonCode{}
}
