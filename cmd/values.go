package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aita/blockjoin/db"
)

// parseField encodes the text form of a value of the given type.
func parseField(typ db.DataType, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	switch typ {
	case db.TypeInt:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "int value %q", text)
		}
		return db.IntBytes(int32(v)), nil
	case db.TypeFloat:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "float value %q", text)
		}
		return db.FloatBytes(float32(v)), nil
	case db.TypeNumber:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "number value %q", text)
		}
		return db.NumberBytes(v), nil
	case db.TypeBool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return nil, errors.Wrapf(err, "bool value %q", text)
		}
		return db.BoolBytes(v), nil
	case db.TypeBlob:
		v, err := hex.DecodeString(text)
		if err != nil {
			return nil, errors.Wrapf(err, "blob value %q", text)
		}
		return v, nil
	}
	return []byte(text), nil
}

func formatField(f db.Field) string {
	switch f.Type {
	case db.TypeInt:
		return strconv.Itoa(int(db.BytesInt(f.Value)))
	case db.TypeFloat:
		return strconv.FormatFloat(float64(db.BytesFloat(f.Value)), 'g', -1, 32)
	case db.TypeNumber:
		return strconv.FormatFloat(db.BytesNumber(f.Value), 'g', -1, 64)
	case db.TypeBool:
		return strconv.FormatBool(len(f.Value) > 0 && f.Value[0] != 0)
	case db.TypeBlob, db.TypeInternal:
		return hex.EncodeToString(f.Value)
	}
	return string(f.Value)
}

// parseHeader reads "name:type, name:type".
func parseHeader(spec string) ([]db.Attribute, error) {
	var header []db.Attribute
	for _, part := range strings.Split(spec, ",") {
		name, typ, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, errors.Errorf("attribute %q: want name:type", part)
		}
		t, ok := db.ParseDataType(typ)
		if !ok {
			return nil, errors.Errorf("attribute %q: unknown type %q", name, typ)
		}
		header = append(header, db.Attribute{Name: strings.TrimSpace(name), Type: t})
	}
	return header, nil
}

// parseRow encodes one value per header attribute, in header order.
func parseRow(header []db.Attribute, values []string) (db.Row, error) {
	if len(values) != len(header) {
		return nil, errors.Errorf("got %d values for %d attributes", len(values), len(header))
	}
	row := db.Row{}
	for i, attr := range header {
		v, err := parseField(attr.Type, values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %s", attr.Name)
		}
		row.Add(attr.Type, attr.Name, v)
	}
	return row, nil
}

func formatRow(row db.Row) string {
	parts := make([]string, len(row))
	for i, f := range row {
		parts[i] = fmt.Sprintf("%s=%s", f.Name, formatField(f))
	}
	return strings.Join(parts, " ")
}
