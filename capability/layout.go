package capability

// The tables below are never handed out; accessors and decoded values get
// copies.

// alpha1Permissions is the permission sub-layout of morello-alpha1.
var alpha1Permissions = []Field{
	BitField("Load", 17),
	BitField("Store", 16),
	BitField("Execute", 15),
	BitField("LoadCap", 14),
	BitField("StoreCap", 13),
	BitField("StoreLocalCap", 12),
	BitField("Seal", 11),
	BitField("Unseal", 10),
	BitField("System", 9),
	BitField("BranchUnseal", 8),
	BitField("CompartmentID", 7),
	BitField("MutableLoad", 6),
	RangeField("User", 5, 2),
	BitField("Global", 1),
	BitField("Executive", 0),
}

// beta0Permissions is the permission sub-layout used from morello-beta0 on.
// Executive and Global are swapped relative to alpha1.
var beta0Permissions = []Field{
	BitField("Load", 17),
	BitField("Store", 16),
	BitField("Execute", 15),
	BitField("LoadCap", 14),
	BitField("StoreCap", 13),
	BitField("StoreLocalCap", 12),
	BitField("Seal", 11),
	BitField("Unseal", 10),
	BitField("System", 9),
	BitField("BranchUnseal", 8),
	BitField("CompartmentID", 7),
	BitField("MutableLoad", 6),
	RangeField("User", 5, 2),
	BitField("Executive", 1),
	BitField("Global", 0),
}

// objectTypes names the reserved sealing object types.
var objectTypes = map[uint64]string{
	1: "RB",
	2: "LPB",
	3: "LB",
}

// alpha1Layout is the field layout of morello-alpha1.
var alpha1Layout = []Field{
	BitField("Tag", 128),
	PermissionsField("Permissions", 127, 110, alpha1Permissions),
	ObjectTypeField("ObjectType", 109, 95, objectTypes),
	RangeField("Bounds[86:56]", 94, 64),
	RangeField("Flags", 63, 56),
	RangeField("Bounds[55:0]", 55, 0),
	RangeField("Value", 63, 0),
}

// beta0Layout is the field layout of morello-beta0.
var beta0Layout = []Field{
	BitField("Tag", 128),
	PermissionsField("Permissions", 127, 110, beta0Permissions),
	ObjectTypeField("ObjectType", 109, 95, objectTypes),
	RangeField("Bounds[86:56]", 94, 64),
	RangeField("Flags", 63, 56),
	RangeField("Bounds[55:0]", 55, 0),
	RangeField("Value", 63, 0),
}

// beta0UpdateLayout is the field layout introduced by ARRAN-596 and kept by
// every later version.
var beta0UpdateLayout = []Field{
	BitField("Tag", 128),
	PermissionsField("Permissions", 127, 110, beta0Permissions),
	ObjectTypeField("ObjectType", 109, 95, objectTypes),
	BitField("IE", 94),
	RangeField("Limit", 93, 80),
	RangeField("Base", 79, 64),
	RangeField("Flags", 63, 56),
	RangeField("Bounds[55:0]", 55, 0),
	RangeField("Value", 63, 0),
}

// Alpha1Permissions returns the permission sub-layout of morello-alpha1.
func Alpha1Permissions() []Field { return cloneLayout(alpha1Permissions) }

// Beta0Permissions returns the permission sub-layout used from morello-beta0
// on.
func Beta0Permissions() []Field { return cloneLayout(beta0Permissions) }

// ObjectTypes returns the names of the reserved sealing object types.
func ObjectTypes() map[uint64]string { return cloneNames(objectTypes) }

func cloneLayout(layout []Field) []Field {
	if layout == nil {
		return nil
	}
	out := make([]Field, len(layout))
	for i, f := range layout {
		out[i] = f.clone()
	}
	return out
}

func cloneNames(names map[uint64]string) map[uint64]string {
	if names == nil {
		return nil
	}
	out := make(map[uint64]string, len(names))
	for k, v := range names {
		out[k] = v
	}
	return out
}
