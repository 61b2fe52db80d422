// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// FSInfo connects a parsed in-memory step back to its physical source on
// disk, so load-time errors can report which file a problematic definition
// lives in.
package pipeline

type FSInfo struct {
	FilePath string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}
