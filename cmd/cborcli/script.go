package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/embedc-cbor/cbor"
)

// runScript applies a comma-separated sequence of tiny ops to ctx, the
// "hex-of-items-script" the encode subcommand takes for manual
// experimentation (spec.md §6's command-line test harness). Each op is
// name:arg or a bare name for ops with no argument:
//
//	u:5          AddUint(5)
//	i:-3         AddInt(-3)
//	s:hello      AddBytes(TextString, "hello")
//	h:deadbeef   AddBytes(ByteString, hex-decoded "deadbeef")
//	f:1.5        AddFloat(1.5)
//	true / false AddBool
//	null         AddNull
//	arr-open     OpenContainer(Array)
//	arr-close    CloseContainer(Array)
//	map-open     OpenContainer(Map)
//	map-close    CloseContainer(Map)
//	tag:0        AddTag(0)
func runScript(ctx *cbor.EncodeContext, script string) error {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}
	for _, tok := range strings.Split(script, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, arg, _ := strings.Cut(tok, ":")
		switch name {
		case "u":
			v, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("op %q: %w", tok, err)
			}
			ctx.AddUint(v)
		case "i":
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("op %q: %w", tok, err)
			}
			ctx.AddInt(v)
		case "s":
			ctx.AddBytes(cbor.MajorTypeTextString, []byte(arg))
		case "h":
			payload, err := hex.DecodeString(arg)
			if err != nil {
				return fmt.Errorf("op %q: %w", tok, err)
			}
			ctx.AddBytes(cbor.MajorTypeByteString, payload)
		case "f":
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("op %q: %w", tok, err)
			}
			ctx.AddFloat(v)
		case "tag":
			v, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("op %q: %w", tok, err)
			}
			ctx.AddTag(v)
		case "true":
			ctx.AddBool(true)
		case "false":
			ctx.AddBool(false)
		case "null":
			ctx.AddNull()
		case "undefined":
			ctx.AddUndefined()
		case "arr-open":
			ctx.OpenContainer(cbor.MajorTypeArray)
		case "arr-close":
			ctx.CloseContainer(cbor.MajorTypeArray, false)
		case "map-open":
			ctx.OpenContainer(cbor.MajorTypeMap)
		case "map-close":
			ctx.CloseContainer(cbor.MajorTypeMap, false)
		default:
			return fmt.Errorf("unknown op %q", tok)
		}
	}
	return nil
}
