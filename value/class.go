package value

// Class tags the host representation of a value.
type Class uint8

const (
	ClassLogical Class = iota
	ClassChar
	ClassDouble
	ClassSingle
	ClassInt8
	ClassUint8
	ClassInt16
	ClassUint16
	ClassInt32
	ClassUint32
	ClassInt64
	ClassUint64
	ClassCell
	ClassStruct
)

var classNames = [...]string{
	ClassLogical: "logical",
	ClassChar:    "char",
	ClassDouble:  "double",
	ClassSingle:  "single",
	ClassInt8:    "int8",
	ClassUint8:   "uint8",
	ClassInt16:   "int16",
	ClassUint16:  "uint16",
	ClassInt32:   "int32",
	ClassUint32:  "uint32",
	ClassInt64:   "int64",
	ClassUint64:  "uint64",
	ClassCell:    "cell",
	ClassStruct:  "struct",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// IsNumeric reports whether c is one of the numeric vector classes.
func (c Class) IsNumeric() bool {
	return c >= ClassDouble && c <= ClassUint64
}

// IsVector reports whether values of c are flat element vectors.
func (c Class) IsVector() bool {
	return c == ClassLogical || c.IsNumeric()
}
