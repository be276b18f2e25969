package internal

// Version is the quizanki release version, shown by --version.
const Version = "0.3.1"
