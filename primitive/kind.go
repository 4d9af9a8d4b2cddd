package primitive

import (
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies host scalar types that have a direct column representation.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindBytes
	KindTime

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// DataKind returns the storage class a value of this kind is written with by default.
func (k KindEnum) DataKind() DataKind {
	switch {
	case k.IsInteger(), k == KindBool:
		return DataKindInteger
	case k.IsFloat():
		return DataKindReal
	case k == KindString, k == KindTime:
		return DataKindText
	case k == KindBytes:
		return DataKindBlob
	default:
		return DataKindAny
	}
}

var kindNames = map[string]KindEnum{
	"int":       KindInt,
	"int8":      KindInt8,
	"int16":     KindInt16,
	"int32":     KindInt32,
	"rune":      KindInt32,
	"int64":     KindInt64,
	"uint":      KindUint,
	"uint8":     KindUint8,
	"byte":      KindUint8,
	"uint16":    KindUint16,
	"uint32":    KindUint32,
	"uint64":    KindUint64,
	"float32":   KindFloat32,
	"float64":   KindFloat64,
	"bool":      KindBool,
	"string":    KindString,
	"[]byte":    KindBytes,
	"time.Time": KindTime,
}

// FromName maps a Go type spelling ("int64", "[]byte", "time.Time") to its kind.
// Unknown names yield the zero KindEnum.
func FromName(name string) KindEnum {
	return kindNames[name]
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case reflect.TypeOf(int(0)):
		return KindInt
	case reflect.TypeOf(int8(0)):
		return KindInt8
	case reflect.TypeOf(int16(0)):
		return KindInt16
	case reflect.TypeOf(int32(0)):
		return KindInt32
	case reflect.TypeOf(int64(0)):
		return KindInt64
	case reflect.TypeOf(uint(0)):
		return KindUint
	case reflect.TypeOf(uint8(0)):
		return KindUint8
	case reflect.TypeOf(uint16(0)):
		return KindUint16
	case reflect.TypeOf(uint32(0)):
		return KindUint32
	case reflect.TypeOf(uint64(0)):
		return KindUint64
	case reflect.TypeOf(float32(0)):
		return KindFloat32
	case reflect.TypeOf(float64(0)):
		return KindFloat64
	case reflect.TypeOf(false):
		return KindBool
	case reflect.TypeOf(""):
		return KindString
	case reflect.TypeOf([]byte(nil)):
		return KindBytes
	case reflect.TypeOf(time.Time{}):
		return KindTime
	}

	return 0
}
