package object

// Package-level singleton descriptors for every built-in kind (§4.3).
// internal/types inserts these into the root scope at startup; they live
// here because every built-in Value's Type() method must return one.
var (
	NullType      = NewBuiltinType("null_t", KindNull)
	BoolType      = NewBuiltinType("bool", KindBool)
	IntType       = NewBuiltinType("int", KindInt)
	RealType      = NewBuiltinType("real", KindReal)
	StringType    = NewBuiltinType("string", KindString)
	ArrayType     = NewBuiltinType("array", KindArray)
	TupleType     = NewBuiltinType("tuple", KindTuple)
	MapType       = NewBuiltinType("map", KindMap)
	FuncType      = NewBuiltinType("func", KindFunc)
	WrapperType   = NewBuiltinType("wrapper_func", KindWrapperFunc)
	CmdType       = NewBuiltinType("cmdobj", KindCmd)
	CmdIterType   = NewBuiltinType("cmd_iter", KindCmdIter)
	ArrayIterType = NewBuiltinType("array_iter", KindArrayIter)
	ModuleType    = NewBuiltinType("module", KindModule)
	MetaTypeType  = NewBuiltinType("type", KindType)
)

// BuiltinTypes lists every registry entry from §4.3 in registration order.
func BuiltinTypes() []*TypeDescriptor {
	return []*TypeDescriptor{
		IntType, RealType, BoolType, StringType, ArrayType, MapType,
		TupleType, FuncType, CmdType, CmdIterType, ArrayIterType,
		ModuleType, MetaTypeType, NullType,
	}
}
