package boxtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type nodeids[A comparable] struct {
	idTable map[treeNode[A]]int
	max     int
}

func newtable[A comparable]() nodeids[A] {
	return nodeids[A]{
		idTable: make(map[treeNode[A]]int),
		max:     1,
	}
}

func (ids *nodeids[A]) alloc(node treeNode[A]) int {
	if id, ok := ids.idTable[node]; ok {
		return id
	}
	ids.idTable[node] = ids.max
	ids.max++
	return ids.max - 1
}

// Tree2Dot outputs the internal structure of a Tree in Graphviz DOT format
// (for debugging purposes).
func Tree2Dot[A comparable](t *Tree[A], w io.Writer) {
	tree2dot[A](t.root, w)
}

// MutableTree2Dot outputs the internal structure of a MutableTree in Graphviz
// DOT format (for debugging purposes).
func MutableTree2Dot[A comparable](t *MutableTree[A], w io.Writer) {
	tree2dot[A](t.root, w)
}

func tree2dot[A comparable](root treeNode[A], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable[A]()
	nodelist, edgelist := "", ""
	var walk func(n treeNode[A])
	walk = func(n treeNode[A]) {
		ID := ids.alloc(n)
		if leaf, ok := n.(*leafNode[A]); ok {
			label := fmt.Sprintf("%s\\n%d items", leaf.bounds, len(leaf.items))
			nodelist += fmt.Sprintf("\"%d\" [label=\"%s\",style=filled,shape=box];\n", ID, label)
			return
		}
		branch := n.(*branchNode[A])
		nodelist += fmt.Sprintf("\"%d\" [label=\"%s\",style=filled,color=black,fillcolor=\"#a3d7e4\",shape=circle];\n",
			ID, branch.bounds)
		for _, child := range branch.children {
			walk(child)
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.idTable[child])
		}
	}
	walk(root)
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

var (
	branchColor   = color.New(color.FgBlue, color.Bold)
	fragmentColor = color.New(color.FgRed)
)

// PrintTree writes an indented, colorized structure dump of t (for debugging
// purposes). Branches are printed in blue, fragments in red.
func PrintTree[A comparable](t *Tree[A], w io.Writer) {
	printNode[A](t.root, w, 0)
}

// PrintMutableTree writes an indented, colorized structure dump of t (for
// debugging purposes).
func PrintMutableTree[A comparable](t *MutableTree[A], w io.Writer) {
	printNode[A](t.root, w, 0)
}

func printNode[A comparable](n treeNode[A], w io.Writer, indent int) {
	pad := strings.Repeat("  ", indent)
	if leaf, ok := n.(*leafNode[A]); ok {
		fmt.Fprintf(w, "%sleaf %s\n", pad, leaf.bounds)
		for _, item := range leaf.items {
			if item.Fragmented() {
				fragmentColor.Fprintf(w, "%s  %s\n", pad, item)
			} else {
				fmt.Fprintf(w, "%s  %s\n", pad, item)
			}
		}
		return
	}
	branch := n.(*branchNode[A])
	branchColor.Fprintf(w, "%sbranch %s\n", pad, branch.bounds)
	for _, child := range branch.children {
		printNode[A](child, w, indent+1)
	}
}
