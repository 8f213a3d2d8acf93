package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// DataType is a matrix element type, identified by its short character tag (e.g. "H", "B", "F8N").
type DataType string

const (
	DataTypeSingle            DataType = "S"
	DataTypeDouble            DataType = "D"
	DataTypeComplexSingle     DataType = "C"
	DataTypeComplexDouble     DataType = "Z"
	DataTypeHalf              DataType = "H"
	DataTypeInt8x4            DataType = "4xi8"
	DataTypeInt32             DataType = "I"
	DataTypeBFloat16          DataType = "B"
	DataTypeInt8              DataType = "I8"
	DataTypeXFloat32          DataType = "X"
	DataTypeFloat8            DataType = "F8"
	DataTypeBFloat8           DataType = "B8"
	DataTypeFloat8BFloat8     DataType = "F8B8"
	DataTypeBFloat8Float8     DataType = "B8F8"
	DataTypeFloat8FNUZ        DataType = "F8N"
	DataTypeBFloat8FNUZ       DataType = "B8N"
	DataTypeFloat8BFloat8FNUZ DataType = "F8B8N"
	DataTypeBFloat8Float8FNUZ DataType = "B8F8N"
)

// dataTypeEnum is the integer encoding used by stored library logic files.
var dataTypeEnum = []DataType{
	0:  DataTypeSingle,
	1:  DataTypeDouble,
	2:  DataTypeComplexSingle,
	3:  DataTypeComplexDouble,
	4:  DataTypeHalf,
	5:  DataTypeInt8x4,
	6:  DataTypeInt32,
	7:  DataTypeBFloat16,
	8:  DataTypeInt8,
	10: DataTypeXFloat32,
	11: DataTypeFloat8FNUZ,
	12: DataTypeBFloat8FNUZ,
	13: DataTypeFloat8BFloat8FNUZ,
	14: DataTypeBFloat8Float8FNUZ,
	15: DataTypeFloat8,
	16: DataTypeBFloat8,
	17: DataTypeFloat8BFloat8,
	18: DataTypeBFloat8Float8,
}

var dataTypeNames = map[string]DataType{
	"s": DataTypeSingle, "single": DataTypeSingle, "float": DataTypeSingle,
	"d": DataTypeDouble, "double": DataTypeDouble,
	"c": DataTypeComplexSingle, "complexsingle": DataTypeComplexSingle, "complexfloat": DataTypeComplexSingle,
	"z": DataTypeComplexDouble, "complexdouble": DataTypeComplexDouble,
	"h": DataTypeHalf, "half": DataTypeHalf,
	"4xi8": DataTypeInt8x4, "int8x4": DataTypeInt8x4,
	"i": DataTypeInt32, "int32": DataTypeInt32,
	"b": DataTypeBFloat16, "bfloat16": DataTypeBFloat16,
	"i8": DataTypeInt8, "int8": DataTypeInt8,
	"x": DataTypeXFloat32, "xfloat32": DataTypeXFloat32,
	"f8": DataTypeFloat8, "float8": DataTypeFloat8,
	"b8": DataTypeBFloat8, "bfloat8": DataTypeBFloat8,
	"f8b8": DataTypeFloat8BFloat8, "float8bfloat8": DataTypeFloat8BFloat8,
	"b8f8": DataTypeBFloat8Float8, "bfloat8float8": DataTypeBFloat8Float8,
	"f8n": DataTypeFloat8FNUZ, "float8_fnuz": DataTypeFloat8FNUZ,
	"b8n": DataTypeBFloat8FNUZ, "bfloat8_fnuz": DataTypeBFloat8FNUZ,
	"f8b8n": DataTypeFloat8BFloat8FNUZ, "float8bfloat8_fnuz": DataTypeFloat8BFloat8FNUZ,
	"b8f8n": DataTypeBFloat8Float8FNUZ, "bfloat8float8_fnuz": DataTypeBFloat8Float8FNUZ,
}

// ParseDataType accepts a character tag, a long name or the integer library encoding.
func ParseDataType(v any) (DataType, error) {
	switch x := Normalize(v).(type) {
	case int:
		if x >= 0 && x < len(dataTypeEnum) && dataTypeEnum[x] != "" {
			return dataTypeEnum[x], nil
		}
	case string:
		if dt, ok := dataTypeNames[strings.ToLower(strings.TrimSpace(x))]; ok {
			return dt, nil
		}
	}
	return "", zerr.With(zerr.New("unknown data type"), "value", fmt.Sprint(v))
}

// Char returns the short character tag.
func (d DataType) Char() string {
	return string(d)
}

// IsBFloat16 reports whether the type is bfloat16.
func (d DataType) IsBFloat16() bool {
	return d == DataTypeBFloat16
}
