package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FlowPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type FlowNodeData struct {
	Label string `json:"label"`
}

// FlowNode and FlowEdge follow the node/edge shape the front end renders.
type FlowNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Position FlowPosition   `json:"position"`
	Data     FlowNodeData   `json:"data"`
	Style    map[string]any `json:"style,omitempty"`
}

type FlowEdge struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Label    string         `json:"label,omitempty"`
	Type     string         `json:"type,omitempty"`
	Animated bool           `json:"animated,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
}

// Diagram is the parsed visual explanation of a code snippet.
type Diagram struct {
	Nodes       []FlowNode `json:"nodes"`
	Edges       []FlowEdge `json:"edges"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// Visualization is a diagram saved against a project file.
type Visualization struct {
	gorm.Model
	PublicID    string         `gorm:"size:40;uniqueIndex" json:"id"`
	ProjectID   uint           `gorm:"not null;index" json:"-"`
	FilePath    string         `gorm:"size:500" json:"filePath"`
	Language    string         `gorm:"size:50" json:"language"`
	Title       string         `gorm:"size:200" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Nodes       datatypes.JSON `json:"nodes"`
	Edges       datatypes.JSON `json:"edges"`
}
