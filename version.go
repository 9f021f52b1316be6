package wellping

// Version is the module version, stamped at release time.
const Version = "0.3.0"
