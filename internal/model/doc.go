// Package model is the semantic model of a package: documents, the features
// they declare and the links between them.
//
// Scanners produce ScannedDocuments. A Document resolves its scanned
// features into Features in two steps: every feature is declared first, then
// class-like features are linked (superclass, mixins, behaviors and own
// members are merged). Documents reached through imports are declared and
// linked together with the document that reached them, so import cycles
// resolve in one pass.
//
// Analysis aggregates the documents of one package into an immutable
// snapshot and answers package wide queries from a minimal set of roots.
package model
