// Package facts serves the dinosaur trivia behind the :sauropod: button.
package facts

import "math/rand"

var facts = []string{
	"The word \"dinosaur\" comes from the Greek for \"terrible lizard\".",
	"Birds are living dinosaurs, descended from small feathered theropods.",
	"Stegosaurus had a brain roughly the size of a walnut.",
	"The Tyrannosaurus rex lived closer in time to humans than to Stegosaurus.",
	"Some sauropods grew longer than three school buses parked end to end.",
	"Many dinosaurs, including Velociraptor, were covered in feathers.",
	"Dinosaurs lived on every continent, including Antarctica.",
	"The longest dinosaur name is Micropachycephalosaurus.",
	"Triceratops could have up to 800 teeth, arranged in batteries.",
	"Most dinosaurs were smaller than a modern chicken.",
}

// Random returns one fact.
func Random() string {
	return facts[rand.Intn(len(facts))]
}
