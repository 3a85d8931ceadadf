package layout

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

// Name renders t in WIT syntax. Anonymous records render inline.
func Name(t wit.Type) string {
	var b strings.Builder
	writeName(&b, t)
	return b.String()
}

func writeName(b *strings.Builder, t wit.Type) {
	switch typ := t.(type) {
	case wit.Bool:
		b.WriteString("bool")
	case wit.U8:
		b.WriteString("u8")
	case wit.S8:
		b.WriteString("s8")
	case wit.U16:
		b.WriteString("u16")
	case wit.S16:
		b.WriteString("s16")
	case wit.U32:
		b.WriteString("u32")
	case wit.S32:
		b.WriteString("s32")
	case wit.U64:
		b.WriteString("u64")
	case wit.S64:
		b.WriteString("s64")
	case wit.F32:
		b.WriteString("f32")
	case wit.F64:
		b.WriteString("f64")
	case wit.Char:
		b.WriteString("char")
	case wit.String:
		b.WriteString("string")
	case *wit.TypeDef:
		writeTypeDef(b, typ)
	default:
		b.WriteString("unknown")
	}
}

func writeTypeDef(b *strings.Builder, t *wit.TypeDef) {
	switch kind := t.Kind.(type) {
	case *wit.List:
		b.WriteString("list<")
		writeName(b, kind.Type)
		b.WriteByte('>')
	case *wit.Option:
		b.WriteString("option<")
		writeName(b, kind.Type)
		b.WriteByte('>')
	case *wit.Tuple:
		b.WriteString("tuple<")
		for i, typ := range kind.Types {
			if i > 0 {
				b.WriteString(", ")
			}
			writeName(b, typ)
		}
		b.WriteByte('>')
	case *wit.Record:
		b.WriteString("record { ")
		for i, f := range kind.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeName(b, f.Type)
		}
		b.WriteString(" }")
	default:
		b.WriteString("unknown")
	}
}
