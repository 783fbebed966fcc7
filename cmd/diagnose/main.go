// Diagnostic tool for analyzing Persistable HDF5 files: walks every group
// and dataset and annotates each with the Persistable attributes that
// drive decodeGroup's classification (DATA_TYPE, FIELD_ORDER,
// PARALLEL_ARRAY, STRUCT_OBJECT_ARRAY, EMPTY_FIELD, LOGICAL_BOOLEAN_ARRAY).
package main

import (
	"fmt"
	"os"

	"github.com/ziggy-module/hdf5persist/hdf5"
	"github.com/ziggy-module/hdf5persist/persistable"
)

// Attribute names are part of the Persistable wire contract (spec §4.2),
// so it's safe for this read-only diagnostic to hardcode them rather than
// reach into persistable's unexported layout helpers.
const (
	attrDataType            = "DATA_TYPE"
	attrFieldOrder          = "FIELD_ORDER"
	attrEmptyField          = "EMPTY_FIELD"
	attrLogicalBooleanArray = "LOGICAL_BOOLEAN_ARRAY"
	attrParallelArray       = "PARALLEL_ARRAY"
	attrStructObjectArray   = "STRUCT_OBJECT_ARRAY"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/diagnose/main.go <file.h5>")
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("=== Analyzing %s ===\n\n", filename)

	f, err := hdf5.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Superblock version: %d\n", f.Version())
	fmt.Println()

	walkGroup(f.Root(), "", 0)
}

func walkGroup(g *hdf5.Group, indent string, depth int) {
	if depth > 20 {
		fmt.Printf("%s[MAX DEPTH REACHED]\n", indent)
		return
	}

	members, err := g.Members()
	if err != nil {
		fmt.Printf("%sERROR getting members: %v\n", indent, err)
		return
	}

	fmt.Printf("%sGroup %q: %s\n", indent, g.Path(), classify(g, members))
	if order := fieldOrder(g); order != "" {
		fmt.Printf("%s  %s\n", indent, order)
	}

	for _, name := range members {
		if subg, err := g.OpenGroup(name); err == nil {
			walkGroup(subg, indent+"  ", depth+1)
			continue
		}

		ds, err := g.OpenDataset(name)
		if err != nil {
			fmt.Printf("%s  %q: ERROR opening as group or dataset: %v\n", indent, name, err)
			continue
		}
		fmt.Printf("%s  Dataset %q: shape=%v dtype=%s\n", indent, name, ds.Shape(), dtypeOf(g))
	}
}

// classify describes why decodeGroup would route this group the way it
// does (spec §4.2's classification order).
func classify(g *hdf5.Group, members []string) string {
	switch {
	case g.HasAttr(attrParallelArray):
		return "PARALLEL_ARRAY (record-of-arrays)"
	case g.HasAttr(attrStructObjectArray):
		dims, _ := attrValue(g, "STRUCT_OBJECT_ARRAY_DIMS")
		return fmt.Sprintf("STRUCT_OBJECT_ARRAY dims=%v", dims)
	case len(members) == 1:
		if _, err := g.OpenDataset(members[0]); err == nil {
			return fmt.Sprintf("leaf dtype=%s bool=%v", dtypeOf(g), g.HasAttr(attrLogicalBooleanArray))
		}
		return "record (1 field)"
	case len(members) == 0 && g.HasAttr(attrEmptyField):
		return "empty"
	default:
		return fmt.Sprintf("record (%d fields)", len(members))
	}
}

func dtypeOf(g *hdf5.Group) string {
	attr := g.Attr(attrDataType)
	if attr == nil {
		return "?"
	}
	tag, err := attr.ReadScalarInt64()
	if err != nil {
		return "?"
	}
	dt, err := persistable.ParseDType(int8(tag))
	if err != nil {
		return fmt.Sprintf("unknown(%d)", tag)
	}
	return dt.String()
}

func fieldOrder(g *hdf5.Group) string {
	attr := g.Attr(attrFieldOrder)
	if attr == nil {
		return ""
	}
	idx, err := attr.ReadScalarInt64()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("FIELD_ORDER=%d", idx)
}

func attrValue(g *hdf5.Group, name string) (interface{}, error) {
	attr := g.Attr(name)
	if attr == nil {
		return nil, fmt.Errorf("missing attribute %q", name)
	}
	return attr.Value()
}
