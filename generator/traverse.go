package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// traverseStep is one emission of the encode merge: exactly one of the
// three members is set. Oneof runs carry the half-open number range
// they cover at this position.
type traverseStep struct {
	field    *fieldGen
	oneof    *oneofGen
	start    int32
	end      int32
	interval *schema.ExtensionInterval
}

// traverseSteps linearizes fields, oneof runs and extension intervals
// into ascending field-number order. A run of consecutive sorted
// fields belonging to the same oneof collapses into one step; the run
// breaks early when an extension interval starts before its next
// member, so the flush lands between the two bounded emissions.
func (g *messageGen) traverseSteps() []traverseStep {
	sorted := g.m.FieldsSortedByNumber()
	intervals := g.m.ExtensionIntervals
	steps := make([]traverseStep, 0, len(sorted)+len(intervals))

	ii := 0
	flushBefore := func(n int32) {
		for ii < len(intervals) && intervals[ii].Start < n {
			steps = append(steps, traverseStep{interval: &intervals[ii]})
			ii++
		}
	}

	for i := 0; i < len(sorted); {
		f := sorted[i]
		flushBefore(f.Number)
		o := f.Oneof
		if o == nil {
			steps = append(steps, traverseStep{field: g.fieldFor[f]})
			i++
			continue
		}
		j := i + 1
		for j < len(sorted) && sorted[j].Oneof == o {
			if ii < len(intervals) && intervals[ii].Start < sorted[j].Number {
				break
			}
			j++
		}
		steps = append(steps, traverseStep{
			oneof: g.oneofFor[o],
			start: f.Number,
			end:   sorted[j-1].Number + 1,
		})
		i = j
	}
	for ii < len(intervals) {
		steps = append(steps, traverseStep{interval: &intervals[ii]})
		ii++
	}
	return steps
}

// emitTraverse writes the single-pass encoder walk. Unknown bytes
// replay last, so re-encoding a decoded message keeps known fields in
// ascending number order with foreign bytes preserved verbatim.
func (g *messageGen) emitTraverse(p *swift.Printer) {
	inStorage := g.indirected()
	p.P(g.vis, "func traverse<V: SwiftProtobuf.Visitor>(visitor: inout V) throws {")
	p.In()
	for _, step := range g.traverseSteps() {
		switch {
		case step.field != nil:
			step.field.emitTraverse(p, inStorage)
		case step.oneof != nil:
			prop := step.oneof.property(inStorage)
			if step.oneof.o.ContinuousInParent {
				p.P("try ", prop, "?.traverse(visitor: &visitor)")
			} else {
				p.P("try ", prop, "?.traverse(visitor: &visitor, start: ", step.start, ", end: ", step.end, ")")
			}
		default:
			p.P("try visitor.visitExtensionFields(values: _protobuf_extensionFieldValues, start: ", step.interval.Start, ", end: ", step.interval.End, ")")
		}
	}
	p.P("try unknownFields.traverse(visitor: &visitor)")
	p.Out()
	p.P("}")
}
