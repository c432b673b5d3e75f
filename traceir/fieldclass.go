package traceir

import (
	"fmt"

	"github.com/philippeDG/babeltrace/errors"
)

// FieldClassType identifies the concrete kind of a field class
type FieldClassType int

const (
	// FieldClassTypeUnsignedInteger is an unsigned integer field class
	FieldClassTypeUnsignedInteger FieldClassType = iota
	// FieldClassTypeSignedInteger is a signed integer field class
	FieldClassTypeSignedInteger
	// FieldClassTypeUnsignedEnumeration is an unsigned enumeration field class
	FieldClassTypeUnsignedEnumeration
	// FieldClassTypeSignedEnumeration is a signed enumeration field class
	FieldClassTypeSignedEnumeration
	// FieldClassTypeReal is a floating point field class
	FieldClassTypeReal
	// FieldClassTypeString is a string field class
	FieldClassTypeString
	// FieldClassTypeStructure is an ordered collection of named members
	FieldClassTypeStructure
)

// String returns the string representation of FieldClassType
func (t FieldClassType) String() string {
	switch t {
	case FieldClassTypeUnsignedInteger:
		return "unsigned-integer"
	case FieldClassTypeSignedInteger:
		return "signed-integer"
	case FieldClassTypeUnsignedEnumeration:
		return "unsigned-enumeration"
	case FieldClassTypeSignedEnumeration:
		return "signed-enumeration"
	case FieldClassTypeReal:
		return "real"
	case FieldClassTypeString:
		return "string"
	case FieldClassTypeStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// FieldClass is the schema of one field inside an event payload or packet
// context. Field classes are plain values: they carry no destruction
// listeners and are reclaimed by the garbage collector like any other value.
type FieldClass interface {
	Type() FieldClassType
}

// DisplayBase is the numeric base a reader should prefer when rendering an
// integer field
type DisplayBase int

const (
	// DisplayBaseBinary renders in base 2
	DisplayBaseBinary DisplayBase = 2
	// DisplayBaseOctal renders in base 8
	DisplayBaseOctal DisplayBase = 8
	// DisplayBaseDecimal renders in base 10
	DisplayBaseDecimal DisplayBase = 10
	// DisplayBaseHexadecimal renders in base 16
	DisplayBaseHexadecimal DisplayBase = 16
)

// String returns the string representation of DisplayBase
func (b DisplayBase) String() string {
	switch b {
	case DisplayBaseBinary:
		return "binary"
	case DisplayBaseOctal:
		return "octal"
	case DisplayBaseDecimal:
		return "decimal"
	case DisplayBaseHexadecimal:
		return "hexadecimal"
	default:
		return "unknown"
	}
}

// IntegerFieldClass describes an integer field: its signedness, the bit
// width of its value range (64 by default) and a preferred display base
// (decimal by default).
type IntegerFieldClass struct {
	fcType    FieldClassType
	rangeBits uint64
	base      DisplayBase
}

// NewUnsignedIntegerFieldClass returns an unsigned integer field class with
// a 64-bit value range and a decimal display base
func NewUnsignedIntegerFieldClass() *IntegerFieldClass {
	return newIntegerFieldClass(FieldClassTypeUnsignedInteger)
}

// NewSignedIntegerFieldClass returns a signed integer field class with a
// 64-bit value range and a decimal display base
func NewSignedIntegerFieldClass() *IntegerFieldClass {
	return newIntegerFieldClass(FieldClassTypeSignedInteger)
}

func newIntegerFieldClass(t FieldClassType) *IntegerFieldClass {
	return &IntegerFieldClass{
		fcType:    t,
		rangeBits: 64,
		base:      DisplayBaseDecimal,
	}
}

// Type returns the concrete field class type
func (fc *IntegerFieldClass) Type() FieldClassType {
	return fc.fcType
}

// FieldValueRange returns the bit width of the field's value range
func (fc *IntegerFieldClass) FieldValueRange() uint64 {
	return fc.rangeBits
}

// SetFieldValueRange sets the bit width of the field's value range, between
// 1 and 64 bits
func (fc *IntegerFieldClass) SetFieldValueRange(bits uint64) error {
	if bits < 1 || bits > 64 {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"IntegerFieldClass", "SetFieldValueRange",
			fmt.Sprintf("value range must be between 1 and 64 bits, got %d", bits))
	}
	fc.rangeBits = bits
	return nil
}

// PreferredDisplayBase returns the base a reader should render values in
func (fc *IntegerFieldClass) PreferredDisplayBase() DisplayBase {
	return fc.base
}

// SetPreferredDisplayBase sets the preferred rendering base
func (fc *IntegerFieldClass) SetPreferredDisplayBase(b DisplayBase) error {
	switch b {
	case DisplayBaseBinary, DisplayBaseOctal, DisplayBaseDecimal, DisplayBaseHexadecimal:
		fc.base = b
		return nil
	default:
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"IntegerFieldClass", "SetPreferredDisplayBase",
			fmt.Sprintf("unknown display base %d", int(b)))
	}
}

// ValueRange is an inclusive range of enumeration values
type ValueRange[T int64 | uint64] struct {
	Lower T
	Upper T
}

// EnumerationMapping associates a label with the value ranges it covers
type EnumerationMapping[T int64 | uint64] struct {
	Label  string
	Ranges []ValueRange[T]
}

// contains reports whether v falls inside any of the mapping's ranges
func (m EnumerationMapping[T]) contains(v T) bool {
	for _, r := range m.Ranges {
		if v >= r.Lower && v <= r.Upper {
			return true
		}
	}
	return false
}

// EnumerationFieldClass is an integer field class whose values map to
// labels. Several mappings may cover the same value; a label is unique
// within one enumeration.
type EnumerationFieldClass[T int64 | uint64] struct {
	IntegerFieldClass
	mappings []EnumerationMapping[T]
	byLabel  map[string]int
}

// NewUnsignedEnumerationFieldClass returns an enumeration over unsigned
// 64-bit values
func NewUnsignedEnumerationFieldClass() *EnumerationFieldClass[uint64] {
	return &EnumerationFieldClass[uint64]{
		IntegerFieldClass: *newIntegerFieldClass(FieldClassTypeUnsignedEnumeration),
		byLabel:           make(map[string]int),
	}
}

// NewSignedEnumerationFieldClass returns an enumeration over signed 64-bit
// values
func NewSignedEnumerationFieldClass() *EnumerationFieldClass[int64] {
	return &EnumerationFieldClass[int64]{
		IntegerFieldClass: *newIntegerFieldClass(FieldClassTypeSignedEnumeration),
		byLabel:           make(map[string]int),
	}
}

// AddMapping associates label with one or more value ranges. An empty label,
// no ranges, or a range whose lower bound exceeds its upper bound fail with
// an invalid-argument error; a label that already exists fails with a
// duplicate-key error.
func (fc *EnumerationFieldClass[T]) AddMapping(label string, ranges ...ValueRange[T]) error {
	if label == "" {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"EnumerationFieldClass", "AddMapping", "mapping label cannot be empty")
	}
	if len(ranges) == 0 {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"EnumerationFieldClass", "AddMapping",
			fmt.Sprintf("mapping %q needs at least one value range", label))
	}
	for _, r := range ranges {
		if r.Lower > r.Upper {
			return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
				"EnumerationFieldClass", "AddMapping",
				fmt.Sprintf("mapping %q has range [%v, %v] with lower bound above upper bound", label, r.Lower, r.Upper))
		}
	}
	if _, exists := fc.byLabel[label]; exists {
		return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
			"EnumerationFieldClass", "AddMapping",
			fmt.Sprintf("mapping %q already exists", label))
	}

	fc.byLabel[label] = len(fc.mappings)
	fc.mappings = append(fc.mappings, EnumerationMapping[T]{
		Label:  label,
		Ranges: append([]ValueRange[T](nil), ranges...),
	})
	return nil
}

// MappingCount returns the number of mappings
func (fc *EnumerationFieldClass[T]) MappingCount() int {
	return len(fc.mappings)
}

// MappingAt returns the mapping at insertion index i
func (fc *EnumerationFieldClass[T]) MappingAt(i int) (EnumerationMapping[T], error) {
	if i < 0 || i >= len(fc.mappings) {
		return EnumerationMapping[T]{}, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"EnumerationFieldClass", "MappingAt",
			fmt.Sprintf("index %d out of range with %d mappings", i, len(fc.mappings)))
	}
	return fc.mappings[i], nil
}

// MappingByLabel returns the mapping with the given label, or a not-found
// error when no mapping has it
func (fc *EnumerationFieldClass[T]) MappingByLabel(label string) (EnumerationMapping[T], error) {
	i, ok := fc.byLabel[label]
	if !ok {
		return EnumerationMapping[T]{}, errors.WrapNotFound(errors.ErrNotFound,
			"EnumerationFieldClass", "MappingByLabel",
			fmt.Sprintf("no mapping labeled %q", label))
	}
	return fc.mappings[i], nil
}

// LabelsForValue returns the labels of every mapping covering v, in mapping
// insertion order. The result is empty when no mapping covers v.
func (fc *EnumerationFieldClass[T]) LabelsForValue(v T) []string {
	var labels []string
	for _, m := range fc.mappings {
		if m.contains(v) {
			labels = append(labels, m.Label)
		}
	}
	return labels
}

// RealFieldClass describes a floating point field, double precision unless
// flagged single
type RealFieldClass struct {
	singlePrecision bool
}

// NewRealFieldClass returns a double precision real field class
func NewRealFieldClass() *RealFieldClass {
	return &RealFieldClass{}
}

// Type returns the concrete field class type
func (fc *RealFieldClass) Type() FieldClassType {
	return FieldClassTypeReal
}

// IsSinglePrecision reports whether values are single precision
func (fc *RealFieldClass) IsSinglePrecision() bool {
	return fc.singlePrecision
}

// SetSinglePrecision switches between single and double precision
func (fc *RealFieldClass) SetSinglePrecision(single bool) {
	fc.singlePrecision = single
}

// StringFieldClass describes a string field
type StringFieldClass struct{}

// NewStringFieldClass returns a string field class
func NewStringFieldClass() *StringFieldClass {
	return &StringFieldClass{}
}

// Type returns the concrete field class type
func (fc *StringFieldClass) Type() FieldClassType {
	return FieldClassTypeString
}

// StructureMember pairs a member name with its field class
type StructureMember struct {
	Name       string
	FieldClass FieldClass
}

// StructureFieldClass is an ordered collection of uniquely named members
type StructureFieldClass struct {
	members []StructureMember
	byName  map[string]int
}

// NewStructureFieldClass returns an empty structure field class
func NewStructureFieldClass() *StructureFieldClass {
	return &StructureFieldClass{
		byName: make(map[string]int),
	}
}

// Type returns the concrete field class type
func (fc *StructureFieldClass) Type() FieldClassType {
	return FieldClassTypeStructure
}

// AppendMember adds a named member after the existing ones. An empty name or
// nil field class fails with an invalid-argument error; a name that already
// exists fails with a duplicate-key error.
func (fc *StructureFieldClass) AppendMember(name string, member FieldClass) error {
	if name == "" {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StructureFieldClass", "AppendMember", "member name cannot be empty")
	}
	if member == nil {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StructureFieldClass", "AppendMember",
			fmt.Sprintf("member %q needs a field class", name))
	}
	if _, exists := fc.byName[name]; exists {
		return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
			"StructureFieldClass", "AppendMember",
			fmt.Sprintf("member %q already exists", name))
	}

	fc.byName[name] = len(fc.members)
	fc.members = append(fc.members, StructureMember{Name: name, FieldClass: member})
	return nil
}

// MemberCount returns the number of members
func (fc *StructureFieldClass) MemberCount() int {
	return len(fc.members)
}

// MemberAt returns the member at insertion index i
func (fc *StructureFieldClass) MemberAt(i int) (StructureMember, error) {
	if i < 0 || i >= len(fc.members) {
		return StructureMember{}, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StructureFieldClass", "MemberAt",
			fmt.Sprintf("index %d out of range with %d members", i, len(fc.members)))
	}
	return fc.members[i], nil
}

// MemberByName returns the member with the given name, or a not-found error
// when no member has it
func (fc *StructureFieldClass) MemberByName(name string) (StructureMember, error) {
	i, ok := fc.byName[name]
	if !ok {
		return StructureMember{}, errors.WrapNotFound(errors.ErrNotFound,
			"StructureFieldClass", "MemberByName",
			fmt.Sprintf("no member named %q", name))
	}
	return fc.members[i], nil
}

// RangeMembers calls fn for each member in insertion order until fn returns
// false
func (fc *StructureFieldClass) RangeMembers(fn func(m StructureMember) bool) {
	for _, m := range fc.members {
		if !fn(m) {
			return
		}
	}
}
