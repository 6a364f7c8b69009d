// Command protoform reconstructs proto-forms from cognate sets.
//
// Usage:
//
//	protoform reconstruct pater fadar patēr
//	protoform collapse pater fadar patēr pitar
//	protoform run --lexemes cognates.json --refine --iterations 2 --test
//	protoform segments lookup "cons +, voice -, lab +"
//	protoform segments list names
//	protoform segments export --path segments.json
//	protoform config init
//
// Settings come from ~/.config/protoform/config.toml (or protoform.toml
// in the working directory); flags override them.
package main
