// Command morphview renders 3D models as point clouds and morphs between them.
package main

func main() {
	Execute()
}
