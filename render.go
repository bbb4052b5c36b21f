package invz

import (
	"github.com/m1gwings/treedrawer/tree"
)

// Tree renders the pipeline structure as an ASCII tree for inspection and
// tooling output: the task at the root, one child per step in forward
// execution order. Steps with a registered inverse are marked so it is easy
// to see which parts of a pipeline actually participate in inversion.
//
//	fmt.Println(task.Tree())
func (t *Task) Tree() string {
	root := tree.NewTree(tree.NodeString("task"))
	for _, st := range t.steps {
		label := string(st.identity.Name())
		if st.hasInverse {
			label += " <->"
		}
		root.AddChild(tree.NodeString(label))
	}
	return root.String()
}
