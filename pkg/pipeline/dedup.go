package pipeline

// DedupPrimitivesByName drops every WireNode geometry leaf whose name has
// already been seen, keeping the first occurrence, matching the driver's
// "dedup_primitives_by_name" stage. Operates on the raw wire tree, before
// binarisation, since names only exist on the wire format.
func DedupPrimitivesByName(w WireNode) WireNode {
	seen := map[string]bool{}
	return dedupNode(w, seen)
}

func dedupNode(w WireNode, seen map[string]bool) WireNode {
	if w.Op != "Geometry" {
		kept := make([]WireNode, 0, len(w.Childs))
		for _, c := range w.Childs {
			if c.Op == "Geometry" && c.Name != "" {
				if seen[c.Name] {
					continue
				}
				seen[c.Name] = true
			}
			kept = append(kept, dedupNode(c, seen))
		}
		w.Childs = kept
	}
	return w
}
