package hybridrow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type encodingMethod int

const (
	MsgPack encodingMethod = iota
	JSON

	defaultNamespaceEncoding = MsgPack
)

type namespaceDoc struct {
	Name    string      `msgpack:"name" json:"name"`
	Schemas []schemaDoc `msgpack:"schemas" json:"schemas"`
}

type schemaDoc struct {
	ID      int32       `msgpack:"id" json:"id"`
	Name    string      `msgpack:"name" json:"name"`
	Columns []columnDoc `msgpack:"columns" json:"columns"`
}

type columnDoc struct {
	Name     string     `msgpack:"name" json:"name"`
	Storage  uint8      `msgpack:"storage" json:"storage"`
	Type     typeArgDoc `msgpack:"type" json:"type"`
	Nullable bool       `msgpack:"nullable,omitempty" json:"nullable,omitempty"`
	Size     int        `msgpack:"size,omitempty" json:"size,omitempty"`
}

type typeArgDoc struct {
	Code   uint8        `msgpack:"t" json:"t"`
	Args   []typeArgDoc `msgpack:"a,omitempty" json:"a,omitempty"`
	Schema int32        `msgpack:"s,omitempty" json:"s,omitempty"`
}

func makeTypeArgDoc(ta TypeArgument) typeArgDoc {
	d := typeArgDoc{Code: uint8(ta.typ.code), Schema: int32(ta.args.schemaID)}
	for _, a := range ta.args.args {
		d.Args = append(d.Args, makeTypeArgDoc(a))
	}
	return d
}

func (d typeArgDoc) typeArg() (TypeArgument, error) {
	t, ok := TypeByCode(LayoutCode(d.Code))
	if !ok {
		return TypeArgument{}, fmt.Errorf("unknown layout code %d", d.Code)
	}
	ta := TypeArgument{typ: t, args: TypeArgumentList{schemaID: SchemaID(d.Schema)}}
	for _, ad := range d.Args {
		a, err := ad.typeArg()
		if err != nil {
			return TypeArgument{}, err
		}
		ta.args.args = append(ta.args.args, a)
	}
	return ta, nil
}

func makeNamespaceDoc(ns *Namespace) *namespaceDoc {
	doc := &namespaceDoc{Name: ns.name}
	for _, l := range ns.layouts {
		sd := schemaDoc{ID: int32(l.id), Name: l.name}
		for _, col := range l.columns {
			cd := columnDoc{
				Name:     col.name,
				Storage:  uint8(col.storage),
				Type:     makeTypeArgDoc(col.TypeArg()),
				Nullable: col.nullable && col.storage == StorageFixed,
			}
			if col.storage == StorageFixed && !col.typ.IsFixed() {
				cd.Size = col.size
			}
			sd.Columns = append(sd.Columns, cd)
		}
		doc.Schemas = append(doc.Schemas, sd)
	}
	return doc
}

// EncodeNamespace serializes the layouts of ns.
func (enc encodingMethod) EncodeNamespace(ns *Namespace) []byte {
	doc := makeNamespaceDoc(ns)
	switch enc {
	case MsgPack:
		var buf bytes.Buffer
		e := msgpack.GetEncoder()
		e.Reset(&buf)
		e.SetSortMapKeys(true)
		err := e.Encode(doc)
		msgpack.PutEncoder(e)
		if err != nil {
			panic(fmt.Errorf("failed to encode namespace %s using MsgPack: %w", ns.name, err))
		}
		return buf.Bytes()
	case JSON:
		raw, err := json.Marshal(doc)
		if err != nil {
			panic(fmt.Errorf("failed to encode namespace %s to JSON: %w", ns.name, err))
		}
		return raw
	default:
		panic("unsupported encoding")
	}
}

// DecodeNamespace rebuilds a namespace serialized by EncodeNamespace.
func (enc encodingMethod) DecodeNamespace(data []byte) (ns *Namespace, err error) {
	var doc namespaceDoc
	switch enc {
	case MsgPack:
		dec := msgpack.GetDecoder()
		dec.Reset(bytes.NewReader(data))
		err = dec.Decode(&doc)
		msgpack.PutDecoder(dec)
		if err != nil {
			return nil, dataErrf(data, 0, err, "failed to decode msgpack namespace")
		}
	case JSON:
		if err = json.Unmarshal(data, &doc); err != nil {
			return nil, dataErrf(data, 0, err, "failed to decode JSON namespace")
		}
	default:
		panic("unsupported encoding")
	}

	defer func() {
		if e := recover(); e != nil {
			ns, err = nil, dataErrf(data, 0, nil, "invalid namespace: %v", e)
		}
	}()
	ns = NewNamespace(doc.Name)
	for _, sd := range doc.Schemas {
		ns.Add(DefineLayout(SchemaID(sd.ID), sd.Name, func(b *LayoutBuilder) {
			for _, cd := range sd.Columns {
				ta, err := cd.Type.typeArg()
				if err != nil {
					panic(fmt.Sprintf("%s.%s: %v", sd.Name, cd.Name, err))
				}
				switch StorageKind(cd.Storage) {
				case StorageFixed:
					if cd.Size > 0 {
						b.FixedLength(cd.Name, ta.typ, cd.Size, cd.Nullable)
					} else {
						b.Fixed(cd.Name, ta.typ, cd.Nullable)
					}
				case StorageVariable:
					b.Variable(cd.Name, ta.typ)
				case StorageSparse:
					b.Sparse(cd.Name, ta.typ, ta.args)
				default:
					panic(fmt.Sprintf("%s.%s: unknown storage %d", sd.Name, cd.Name, cd.Storage))
				}
			}
		}))
	}
	if err := ns.Check(); err != nil {
		return nil, dataErrf(data, 0, err, "invalid namespace")
	}
	return ns, nil
}

// EncodeNamespace serializes ns with the default (MessagePack) encoding.
func EncodeNamespace(ns *Namespace) []byte {
	return defaultNamespaceEncoding.EncodeNamespace(ns)
}

func DecodeNamespace(data []byte) (*Namespace, error) {
	return defaultNamespaceEncoding.DecodeNamespace(data)
}
