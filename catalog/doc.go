// Package catalog loads example prompts from a YAML file into a
// prompts.Registry and keeps them in sync while the file changes.
//
// The file maps tool names to their example prompts:
//
//	tools:
//	  pull_function_code:
//	    - "下载函数代码到 /tmp/foo"
//	    - "获取函数 abc 的代码并展现文件结构"
//
// A Loader remembers which names came from the file. On Reload it applies
// the new contents and removes names that are no longer listed, leaving
// entries registered in code alone.
package catalog
