package highlight

// OpKind identifies a render operation.
type OpKind string

const (
	OpNode  OpKind = "node"
	OpEdge  OpKind = "edge"
	OpFront OpKind = "front"
)

// Op is a single instruction for a remote rendering surface.
type Op struct {
	Kind OpKind `json:"kind"`
	ID   string `json:"id"`
	On   bool   `json:"on,omitempty"`
}

// Recorder is a Surface that buffers operations so they can be shipped to a
// client (browser, websocket peer) and applied there.
type Recorder struct {
	ops []Op
}

func (r *Recorder) SetNodeHighlight(id string, on bool) {
	r.ops = append(r.ops, Op{Kind: OpNode, ID: id, On: on})
}

func (r *Recorder) SetEdgeHighlight(id string, on bool) {
	r.ops = append(r.ops, Op{Kind: OpEdge, ID: id, On: on})
}

func (r *Recorder) BringEdgeToFront(id string) {
	r.ops = append(r.ops, Op{Kind: OpFront, ID: id})
}

// Drain returns the buffered operations and resets the buffer.
func (r *Recorder) Drain() []Op {
	ops := r.ops
	r.ops = nil
	return ops
}
