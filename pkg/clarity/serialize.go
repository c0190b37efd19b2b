package clarity

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// Serialize encodes v into the compact byte form used for storing contract
// data variables in the database. This is a storage codec, not a wire
// format: both ends are always the same process version.
func Serialize(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize is the inverse of Serialize. Trailing bytes after a complete
// value are rejected.
func Deserialize(raw []byte) (Value, error) {
	r := bytes.NewReader(raw)
	v, err := readValue(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.New("deserialize: trailing bytes after value")
	}
	return v, nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	buf.WriteByte(byte(v.Type()))
	switch x := v.(type) {
	case Int:
		sign := byte(0)
		if x.V.Sign() < 0 {
			sign = 1
		}
		buf.WriteByte(sign)
		writeBytes(buf, x.V.Bytes())
	case Bool:
		buf.WriteByte(boolByte(bool(x)))
	case PrincipalValue:
		buf.WriteByte(byte(x.P.Kind))
		buf.Write(x.P.Hash[:])
		writeBytes(buf, []byte(x.P.Contract))
	case Buffer:
		writeBytes(buf, x.B)
	case None:
	case List:
		writeUvarint(buf, uint64(len(x.Items)))
		for _, item := range x.Items {
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
	case Response:
		buf.WriteByte(boolByte(x.Committed))
		return writeValue(buf, x.Data)
	default:
		return errors.Errorf("serialize: unknown value type %d", v.Type())
	}
	return nil
}

func readValue(r *bytes.Reader) (Value, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "deserialize: value tag")
	}
	switch ValueType(tag) {
	case TypeInt:
		sign, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		mag, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(mag)
		if sign == 1 {
			n.Neg(n)
		}
		return Int{V: n}, nil
	case TypeBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return Bool(b == 1), nil
	case TypePrincipal:
		kind, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var hash [20]byte
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return nil, err
		}
		name, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		p := Principal{Kind: PrincipalKind(kind), Hash: hash, Contract: ClarityName(name)}
		return PrincipalValue{P: p}, nil
	case TypeBuffer:
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return Buffer{B: b}, nil
	case TypeNone:
		return None{}, nil
	case TypeList:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		items := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			item, err := readValue(r)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return List{Items: items}, nil
	case TypeResponse:
		committed, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		data, err := readValue(r)
		if err != nil {
			return nil, err
		}
		return Response{Committed: committed == 1, Data: data}, nil
	default:
		return nil, errors.Errorf("deserialize: unknown value tag %d", tag)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeUvarint(buf *bytes.Buffer, n uint64) {
	var tmp [binary.MaxVarintLen64]byte
	buf.Write(tmp[:binary.PutUvarint(tmp[:], n)])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, errors.New("deserialize: length prefix exceeds remaining input")
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
