// Package platform classifies the host runtime (Google Colab, Kaggle, or
// generic Linux) and locates the python interpreter.
//
// Classification drives defaults elsewhere: the installer prefix and the
// kernel-restart caveat both depend on the detected runtime. Probes are
// ordered environment-variable checks with filesystem fallbacks.
package platform
