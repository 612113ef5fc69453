package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// nodeComponent lets a gomponents.Node be rendered wherever a templ.Component is expected.
type nodeComponent struct {
	node gomponents.Node
}

func (a nodeComponent) Render(_ context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// Component wraps a gomponents node as a templ.Component.
func Component(node gomponents.Node) templ.Component {
	return nodeComponent{node: node}
}

// componentNode lets a templ.Component be embedded in a gomponents tree. gomponents does
// not pass a context down, so the component renders with the one captured at wrap time.
type componentNode struct {
	ctx       context.Context
	component templ.Component
}

func (a componentNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// Node wraps a templ.Component as a gomponents.Node rendered with ctx.
func Node(ctx context.Context, component templ.Component) gomponents.Node {
	return componentNode{ctx: ctx, component: component}
}
