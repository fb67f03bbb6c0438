package main

import (
	"fmt"
	"io"

	"github.com/embedc-cbor/cbor/decode"
)

// printTrace walks data with a decode.Decoder and writes one line per item,
// indented by nesting depth, to back the decode subcommand.
func printTrace(w io.Writer, data []byte) error {
	d := decode.New(data)
	depth := 0
	for {
		state, err := d.PeekState()
		if err != nil {
			return err
		}
		if state == decode.StateFinished {
			return d.ExpectAtEnd()
		}
		indent := indentFor(depth)
		switch state {
		case decode.StateUnsignedInteger:
			v, err := d.ReadUint64()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%suint %d\n", indent, v)
		case decode.StateNegativeInteger:
			v, err := d.ReadInt64()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%sint %d\n", indent, v)
		case decode.StateByteString:
			v, err := d.ReadByteString()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%sbytes %x\n", indent, v)
		case decode.StateTextString:
			v, err := d.ReadTextString()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%stext %q\n", indent, v)
		case decode.StateStartArray:
			n, err := d.ReadStartArray()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%sarray[%d]\n", indent, n)
			depth++
		case decode.StateEndArray:
			if err := d.ReadEndArray(); err != nil {
				return err
			}
			depth--
		case decode.StateStartMap:
			n, err := d.ReadStartMap()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%smap[%d]\n", indent, n)
			depth++
		case decode.StateEndMap:
			if err := d.ReadEndMap(); err != nil {
				return err
			}
			depth--
		case decode.StateTag:
			tag, err := d.ReadTag()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%stag %d\n", indent, tag)
		case decode.StateBoolean:
			v, err := d.ReadBoolean()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%sbool %v\n", indent, v)
		case decode.StateNull:
			if err := d.ReadNull(); err != nil {
				return err
			}
			fmt.Fprintf(w, "%snull\n", indent)
		case decode.StateUndefinedValue:
			if err := d.ReadUndefined(); err != nil {
				return err
			}
			fmt.Fprintf(w, "%sundefined\n", indent)
		case decode.StateSimpleValue:
			v, err := d.ReadSimpleValue()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%ssimple(%d)\n", indent, v)
		case decode.StateHalfFloat, decode.StateSingleFloat, decode.StateDoubleFloat:
			v, err := d.ReadFloat()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%sfloat %v\n", indent, v)
		default:
			return fmt.Errorf("trace: unhandled state %s", state)
		}
	}
}

func indentFor(depth int) string {
	const pad = "  "
	out := ""
	for i := 0; i < depth; i++ {
		out += pad
	}
	return out
}
