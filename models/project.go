package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Project is one uploaded or cloned codebase. Rows are created on upload and
// only removed together with the project directory.
type Project struct {
	gorm.Model
	PublicID   string `gorm:"not null;size:40;uniqueIndex" json:"projectId"`
	Dir        string `gorm:"not null" json:"-"`
	SourceType string `gorm:"not null;size:10" json:"sourceType"`
	SourceURL  string `gorm:"size:500" json:"sourceUrl,omitempty"`
	FileCount  int    `gorm:"not null;default:0" json:"fileCount"`
	Summary    string `gorm:"type:text" json:"summary"`

	UserID *uint `gorm:"index" json:"-"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// ProjectFile is a file read from a project, held in memory for summarising.
type ProjectFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// FileNode is one entry of a project tree. It is derived from disk on every
// request and never persisted.
type FileNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Type     string      `json:"type"`
	Children []*FileNode `json:"children,omitempty"`
}

// MarshalJSON always emits children for directories, as an empty array when
// there are none. Files carry no children key.
func (n FileNode) MarshalJSON() ([]byte, error) {
	type node FileNode
	if n.Type != NodeTypeDirectory {
		return json.Marshal(node(n))
	}
	children := n.Children
	if children == nil {
		children = []*FileNode{}
	}
	return json.Marshal(struct {
		node
		Children []*FileNode `json:"children"`
	}{node(n), children})
}

// FileContent is the body of GET /api/file-content.
type FileContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}
