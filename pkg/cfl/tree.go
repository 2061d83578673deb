package cfl

import (
	"sort"
	"strings"
)

// Node represents an entry in the directory tree structure.
type Node struct {
	Name     string
	IsDir    bool
	Children []*Node
}

// BuildTree renders the directory hierarchy implied by the entries' relative
// paths. Directories are listed before files and siblings are sorted by
// name. An empty entry set renders as "".
func BuildTree(entries []FileEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return printTree(buildNodes(entries))
}

// buildNodes constructs a hierarchical tree from a flat list of entries,
// creating intermediate directory nodes as needed.
func buildNodes(entries []FileEntry) *Node {
	root := &Node{Name: ".", IsDir: true}
	dirs := map[string]*Node{"": root}

	for _, entry := range entries {
		parts := strings.Split(strings.Trim(entry.Path, "/"), "/")
		parent := root
		prefix := ""
		for _, dir := range parts[:len(parts)-1] {
			prefix += dir + "/"
			node, ok := dirs[prefix]
			if !ok {
				node = &Node{Name: dir, IsDir: true}
				parent.Children = append(parent.Children, node)
				dirs[prefix] = node
			}
			parent = node
		}
		parent.Children = append(parent.Children, &Node{Name: parts[len(parts)-1]})
	}

	sortChildren(root)
	return root
}

// sortChildren recursively sorts directories first, then by name.
func sortChildren(node *Node) {
	if !node.IsDir || len(node.Children) == 0 {
		return
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// printTree generates the string representation of the tree.
func printTree(root *Node) string {
	var builder strings.Builder
	builder.WriteString(root.Name)
	builder.WriteString("\n")
	printNode(&builder, root.Children, "")
	return builder.String()
}

// printNode is a helper function for recursively printing tree nodes.
func printNode(builder *strings.Builder, children []*Node, prefix string) {
	for i, node := range children {
		connector := "├── "
		newPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(node.Name)
		if node.IsDir {
			builder.WriteString("/")
		}
		builder.WriteString("\n")

		if node.IsDir && len(node.Children) > 0 {
			printNode(builder, node.Children, newPrefix)
		}
	}
}
